// Package mapview mirrors journey state onto map layers. It owns no
// state of its own: Build derives the full layer set from a snapshot,
// and Diff computes the add/update/remove operations between two sets so
// a renderer can reconcile in place instead of redrawing everything.
package mapview

import (
	"fmt"

	"github.com/peerpath/journey-backend-go/internal/models"
)

// Layer kinds
const (
	KindMarker   = "marker"
	KindCircle   = "circle"
	KindPolyline = "polyline"
)

// Styling carried over from the tracker UI: verified layers render in
// the darker tone, the remaining route is dashed slate.
const (
	colorVerified  = "#059669"
	colorPending   = "#10b981"
	colorRemaining = "#64748b"

	circleFillOpacity = 0.15

	completedWeight = 5
	remainingWeight = 4
	remainingDash   = "6 8"
)

// Reserved layer ids
const (
	LayerLive           = "live"
	LayerRouteCompleted = "route:completed"
	LayerRouteRemaining = "route:remaining"
)

// Layer is one drawable map element.
type Layer struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Center       *models.LatLng  `json:"center,omitempty"`       // marker, circle
	RadiusMeters float64         `json:"radiusMeters,omitempty"` // circle
	Points       []models.LatLng `json:"points,omitempty"`       // polyline
	Color        string          `json:"color,omitempty"`
	FillOpacity  float64         `json:"fillOpacity,omitempty"`
	Weight       int             `json:"weight,omitempty"`
	DashArray    string          `json:"dashArray,omitempty"`
	Popup        string          `json:"popup,omitempty"`
}

// LayerSet is the complete drawable view of one snapshot. Layers keep
// waypoint sequence order. FitBounds carries the points the view should
// zoom to; it is populated only before the journey starts so a live
// map is not yanked away from the user's own dot.
type LayerSet struct {
	Layers    []Layer         `json:"layers"`
	FitBounds []models.LatLng `json:"fitBounds,omitempty"`
}

func waypointMarkerID(id string) string { return "wp:" + id + ":marker" }
func waypointCircleID(id string) string { return "wp:" + id + ":circle" }

func waypointStatus(w *models.Waypoint) string {
	switch {
	case w.Verified:
		return "Verified"
	case w.OTP != "":
		return "Code issued"
	default:
		return "Pending"
	}
}

// Build derives the full layer set from a snapshot.
func Build(snap models.JourneySnapshot) LayerSet {
	var set LayerSet

	for i := range snap.Waypoints {
		w := &snap.Waypoints[i]
		if w.Target == nil {
			continue
		}
		color := colorPending
		if w.Verified {
			color = colorVerified
		}
		center := w.Target.Center()
		popup := fmt.Sprintf("%s | radius %.0fm | %s", w.Label, w.Target.RadiusMeters, waypointStatus(w))

		set.Layers = append(set.Layers,
			Layer{
				ID:           waypointCircleID(w.ID),
				Kind:         KindCircle,
				Center:       &center,
				RadiusMeters: w.Target.RadiusMeters,
				Color:        color,
				FillOpacity:  circleFillOpacity,
			},
			Layer{
				ID:     waypointMarkerID(w.ID),
				Kind:   KindMarker,
				Center: &center,
				Color:  color,
				Popup:  popup,
			},
		)
	}

	if live := snap.LiveCoords; live != nil {
		c := *live
		set.Layers = append(set.Layers, Layer{
			ID:     LayerLive,
			Kind:   KindMarker,
			Center: &c,
			Popup:  "You are here",
		})
	}

	set.Layers = append(set.Layers, routeLayers(&snap.JourneyState)...)

	targets := targetPoints(&snap.JourneyState)
	if !snap.Started() && len(targets) >= 2 {
		set.FitBounds = targets
	}

	return set
}

// routeLayers renders the two route segments: solid through the last
// verified waypoint, dashed from there to the end. Each needs at least
// two targeted waypoints to draw.
func routeLayers(s *models.JourneyState) []Layer {
	if len(targetPoints(s)) < 2 {
		return nil
	}

	lastVerified := s.LastVerifiedIndex()

	var completed, remaining []models.LatLng
	for i := range s.Waypoints {
		w := &s.Waypoints[i]
		if w.Target == nil {
			continue
		}
		pt := w.Target.Center()
		if i <= lastVerified {
			completed = append(completed, pt)
		}
		if i >= max(lastVerified, 0) {
			remaining = append(remaining, pt)
		}
	}

	var out []Layer
	if len(completed) >= 2 {
		out = append(out, Layer{
			ID:     LayerRouteCompleted,
			Kind:   KindPolyline,
			Points: completed,
			Color:  colorVerified,
			Weight: completedWeight,
		})
	}
	if len(remaining) >= 2 {
		out = append(out, Layer{
			ID:        LayerRouteRemaining,
			Kind:      KindPolyline,
			Points:    remaining,
			Color:     colorRemaining,
			Weight:    remainingWeight,
			DashArray: remainingDash,
		})
	}
	return out
}

func targetPoints(s *models.JourneyState) []models.LatLng {
	var pts []models.LatLng
	for i := range s.Waypoints {
		if t := s.Waypoints[i].Target; t != nil {
			pts = append(pts, t.Center())
		}
	}
	return pts
}
