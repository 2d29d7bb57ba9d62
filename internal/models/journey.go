package models

// JourneyState is the full tracker state: the ordered waypoint sequence
// plus start/completion stamps. The first waypoint is always "depart"
// and the last is always "arrive"; midpoints sit strictly between them.
type JourneyState struct {
	StartedAt   string     `json:"startedAt,omitempty"`
	StartCoords *LatLng    `json:"startCoords,omitempty"`
	Waypoints   []Waypoint `json:"waypoints"`
	Completed   bool       `json:"completed"`
	EndedAt     string     `json:"endedAt,omitempty"`
}

// DefaultJourneyState returns the two-endpoint planning state.
func DefaultJourneyState() JourneyState {
	return JourneyState{
		Waypoints: []Waypoint{
			{ID: WaypointDepart, Label: LabelDepart},
			{ID: WaypointArrive, Label: LabelArrive},
		},
	}
}

// Started reports whether the journey has left the planning phase.
func (s *JourneyState) Started() bool {
	return s.StartedAt != ""
}

// AllVerified reports whether every waypoint has been verified.
func (s *JourneyState) AllVerified() bool {
	for i := range s.Waypoints {
		if !s.Waypoints[i].Verified {
			return false
		}
	}
	return true
}

// Waypoint returns the waypoint with the given id, or nil.
func (s *JourneyState) Waypoint(id string) *Waypoint {
	for i := range s.Waypoints {
		if s.Waypoints[i].ID == id {
			return &s.Waypoints[i]
		}
	}
	return nil
}

// LastVerifiedIndex returns the index of the last verified waypoint in
// sequence order, or -1 if none is verified.
func (s *JourneyState) LastVerifiedIndex() int {
	last := -1
	for i := range s.Waypoints {
		if s.Waypoints[i].Verified {
			last = i
		}
	}
	return last
}

// Clone returns a deep copy of the state.
func (s *JourneyState) Clone() JourneyState {
	c := *s
	if s.StartCoords != nil {
		p := *s.StartCoords
		c.StartCoords = &p
	}
	c.Waypoints = make([]Waypoint, len(s.Waypoints))
	for i := range s.Waypoints {
		c.Waypoints[i] = s.Waypoints[i].Clone()
	}
	return c
}

// JourneySnapshot is the read model served to clients: the state plus
// the transient focus and live-fix fields the tracker holds in memory.
type JourneySnapshot struct {
	JourneyState
	ActiveWaypointID string  `json:"activeWaypointId,omitempty"`
	LiveCoords       *LatLng `json:"liveCoords,omitempty"`
}
