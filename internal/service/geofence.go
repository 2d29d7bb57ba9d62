package service

import (
	"github.com/peerpath/journey-backend-go/internal/models"
	"github.com/peerpath/journey-backend-go/internal/spatial"
)

// scanGeofences returns, in sequence order, the ids of every waypoint
// that is still pending (no code, not verified), has a target, and whose
// geofence contains the current position. Verified waypoints are never
// re-entered: the per-waypoint state machine only moves forward.
func scanGeofences(state *models.JourneyState, current models.LatLng) []string {
	var entered []string
	for i := range state.Waypoints {
		w := &state.Waypoints[i]
		if !w.Pending() || w.Target == nil {
			continue
		}
		if spatial.WithinRadius(current, w.Target.Center(), w.Target.RadiusMeters) {
			entered = append(entered, w.ID)
		}
	}
	return entered
}
