package models

// Reserved waypoint IDs for the fixed journey endpoints
const (
	WaypointDepart = "depart"
	WaypointArrive = "arrive"
)

// Default labels for the endpoint waypoints
const (
	LabelDepart = "Departure"
	LabelArrive = "Arrival (Exam Center)"
)

// DefaultRadiusMeters is the geofence radius assigned when none is chosen
const DefaultRadiusMeters = 150.0

// LatLng is a WGS84 coordinate pair in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Target is the planned location of a waypoint: geofence center, radius
// and the geocoded address it was picked from. Distinct from the coords
// actually captured at verification time.
type Target struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radiusMeters"`
	Address      string  `json:"address,omitempty"`
}

// Center returns the geofence center of the target.
func (t Target) Center() LatLng {
	return LatLng{Lat: t.Lat, Lng: t.Lng}
}

// Waypoint is a named checkpoint in a planned journey. The OTP is issued
// when the holder enters the geofence (or triggers it manually) and
// cleared from consideration once the waypoint is verified.
type Waypoint struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Target    *Target `json:"target,omitempty"`
	OTP       string  `json:"otp,omitempty"`
	Verified  bool    `json:"verified"`
	Timestamp string  `json:"timestamp,omitempty"` // ISO time of verification
	Coords    *LatLng `json:"coords,omitempty"`    // device fix captured at verification
}

// IsEndpoint reports whether the waypoint is one of the two fixed endpoints.
func (w *Waypoint) IsEndpoint() bool {
	return w.ID == WaypointDepart || w.ID == WaypointArrive
}

// Pending reports whether the waypoint has neither an issued code nor a
// verification, i.e. it is still eligible for geofence triggering.
func (w *Waypoint) Pending() bool {
	return !w.Verified && w.OTP == ""
}

// Clone returns a deep copy of the waypoint.
func (w *Waypoint) Clone() Waypoint {
	c := *w
	if w.Target != nil {
		t := *w.Target
		c.Target = &t
	}
	if w.Coords != nil {
		p := *w.Coords
		c.Coords = &p
	}
	return c
}
