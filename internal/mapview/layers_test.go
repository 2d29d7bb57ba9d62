package mapview

import (
	"testing"

	"github.com/peerpath/journey-backend-go/internal/models"
)

func target(lat, lng float64) *models.Target {
	return &models.Target{Lat: lat, Lng: lng, RadiusMeters: 150}
}

func plannedSnapshot() models.JourneySnapshot {
	return models.JourneySnapshot{
		JourneyState: models.JourneyState{
			Waypoints: []models.Waypoint{
				{ID: models.WaypointDepart, Label: models.LabelDepart, Target: target(10, 10)},
				{ID: "mid-1", Label: "Cafe", Target: target(10.5, 10.5)},
				{ID: models.WaypointArrive, Label: models.LabelArrive, Target: target(11, 11)},
			},
		},
	}
}

func layerByID(set LayerSet, id string) *Layer {
	for i := range set.Layers {
		if set.Layers[i].ID == id {
			return &set.Layers[i]
		}
	}
	return nil
}

func TestBuild_NoTargetsNoLayers(t *testing.T) {
	snap := models.JourneySnapshot{JourneyState: models.DefaultJourneyState()}
	set := Build(snap)

	if len(set.Layers) != 0 {
		t.Fatalf("got %d layers, want 0", len(set.Layers))
	}
	if set.FitBounds != nil {
		t.Fatal("fit bounds set with no targets")
	}
}

func TestBuild_PlannedJourney(t *testing.T) {
	set := Build(plannedSnapshot())

	// marker+circle per targeted waypoint, plus the remaining polyline
	if got, want := len(set.Layers), 7; got != want {
		t.Fatalf("got %d layers, want %d", got, want)
	}

	circle := layerByID(set, "wp:depart:circle")
	if circle == nil {
		t.Fatal("departure circle missing")
	}
	if circle.Color != colorPending {
		t.Errorf("unverified circle color = %q, want %q", circle.Color, colorPending)
	}
	if circle.RadiusMeters != 150 {
		t.Errorf("circle radius = %v, want 150", circle.RadiusMeters)
	}

	if l := layerByID(set, LayerRouteCompleted); l != nil {
		t.Error("completed route drawn with nothing verified")
	}
	remaining := layerByID(set, LayerRouteRemaining)
	if remaining == nil {
		t.Fatal("remaining route missing")
	}
	if len(remaining.Points) != 3 {
		t.Errorf("remaining route has %d points, want 3", len(remaining.Points))
	}
	if remaining.DashArray != remainingDash {
		t.Errorf("remaining route dash = %q, want %q", remaining.DashArray, remainingDash)
	}

	// Pre-start, the view fits bounds to all targets.
	if len(set.FitBounds) != 3 {
		t.Errorf("fit bounds has %d points, want 3", len(set.FitBounds))
	}
}

func TestBuild_StartedStopsFitBounds(t *testing.T) {
	snap := plannedSnapshot()
	snap.StartedAt = "2026-02-01T08:00:00Z"

	set := Build(snap)
	if set.FitBounds != nil {
		t.Fatal("fit bounds still set after start")
	}
}

func TestBuild_VerifiedSplitsRoute(t *testing.T) {
	snap := plannedSnapshot()
	snap.StartedAt = "2026-02-01T08:00:00Z"
	snap.Waypoints[0].Verified = true
	snap.Waypoints[1].Verified = true

	set := Build(snap)

	completed := layerByID(set, LayerRouteCompleted)
	if completed == nil {
		t.Fatal("completed route missing")
	}
	if len(completed.Points) != 2 {
		t.Errorf("completed route has %d points, want 2", len(completed.Points))
	}
	if completed.Color != colorVerified {
		t.Errorf("completed route color = %q, want %q", completed.Color, colorVerified)
	}

	remaining := layerByID(set, LayerRouteRemaining)
	if remaining == nil {
		t.Fatal("remaining route missing")
	}
	// From the last verified waypoint through arrival.
	if len(remaining.Points) != 2 {
		t.Errorf("remaining route has %d points, want 2", len(remaining.Points))
	}

	if c := layerByID(set, "wp:depart:circle"); c == nil || c.Color != colorVerified {
		t.Error("verified waypoint not rendered in verified tone")
	}
	if c := layerByID(set, "wp:arrive:circle"); c == nil || c.Color != colorPending {
		t.Error("pending waypoint not rendered in pending tone")
	}
}

func TestBuild_LiveMarker(t *testing.T) {
	snap := plannedSnapshot()
	snap.LiveCoords = &models.LatLng{Lat: 10.2, Lng: 10.2}

	set := Build(snap)
	live := layerByID(set, LayerLive)
	if live == nil {
		t.Fatal("live marker missing")
	}
	if *live.Center != *snap.LiveCoords {
		t.Errorf("live marker at %v, want %v", live.Center, snap.LiveCoords)
	}
}
