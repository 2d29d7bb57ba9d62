package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/peerpath/journey-backend-go/internal/apperr"
	"github.com/peerpath/journey-backend-go/internal/models"
)

// Route planning. Every operation here is valid only while the journey
// is still in the planning phase: targets are immutable in flight.

// SetTarget sets a waypoint's planned location from a geocoded
// selection, keeping any previously chosen radius.
func (s *JourneyService) SetTarget(id string, sel models.LocationSelection) (models.JourneySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Started() {
		return models.JourneySnapshot{}, apperr.ErrJourneyStarted
	}
	w := s.state.Waypoint(id)
	if w == nil {
		return models.JourneySnapshot{}, apperr.ErrWaypointNotFound
	}

	radius := models.DefaultRadiusMeters
	if w.Target != nil && w.Target.RadiusMeters > 0 {
		radius = w.Target.RadiusMeters
	}
	w.Target = &models.Target{
		Lat:          sel.Lat,
		Lng:          sel.Lng,
		RadiusMeters: radius,
		Address:      sel.Address,
	}
	s.persistLocked()
	return s.snapshotLocked(), nil
}

// AddMidpoint inserts a new waypoint immediately before arrival, i.e.
// after every previously added midpoint. Both endpoints must be targeted
// first. An empty label derives from the leading segment of the address.
func (s *JourneyService) AddMidpoint(sel models.LocationSelection, label string) (models.JourneySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Started() {
		return models.JourneySnapshot{}, apperr.ErrJourneyStarted
	}
	dep := s.state.Waypoint(models.WaypointDepart)
	arr := s.state.Waypoint(models.WaypointArrive)
	if dep == nil || arr == nil || dep.Target == nil || arr.Target == nil {
		return models.JourneySnapshot{}, apperr.ErrEndpointsUnset
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = strings.TrimSpace(strings.Split(sel.Address, ",")[0])
	}
	if label == "" {
		label = "Midpoint"
	}

	mid := models.Waypoint{
		ID:    uuid.NewString(),
		Label: label,
		Target: &models.Target{
			Lat:          sel.Lat,
			Lng:          sel.Lng,
			RadiusMeters: models.DefaultRadiusMeters,
			Address:      sel.Address,
		},
	}

	last := len(s.state.Waypoints) - 1
	waypoints := make([]models.Waypoint, 0, len(s.state.Waypoints)+1)
	waypoints = append(waypoints, s.state.Waypoints[:last]...)
	waypoints = append(waypoints, mid)
	waypoints = append(waypoints, s.state.Waypoints[last])
	s.state.Waypoints = waypoints

	s.persistLocked()
	return s.snapshotLocked(), nil
}

// UpdateRadius adjusts a targeted waypoint's geofence radius. A waypoint
// without a target cannot hold a radius yet; that comes back as a
// user-facing condition, not a silent write.
func (s *JourneyService) UpdateRadius(id string, radiusMeters float64) (models.JourneySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Started() {
		return models.JourneySnapshot{}, apperr.ErrJourneyStarted
	}
	w := s.state.Waypoint(id)
	if w == nil {
		return models.JourneySnapshot{}, apperr.ErrWaypointNotFound
	}
	if w.Target == nil {
		return models.JourneySnapshot{}, apperr.ErrTargetUnset
	}

	w.Target.RadiusMeters = radiusMeters
	s.persistLocked()
	return s.snapshotLocked(), nil
}

// CaptureCurrentAsTarget sets a midpoint's target from the device's
// current position, preserving an already chosen radius. Endpoints are
// planned from search, never captured.
func (s *JourneyService) CaptureCurrentAsTarget(ctx context.Context, id string) (models.JourneySnapshot, error) {
	s.mu.Lock()
	if s.state.Started() {
		s.mu.Unlock()
		return models.JourneySnapshot{}, apperr.ErrJourneyStarted
	}
	w := s.state.Waypoint(id)
	if w == nil {
		s.mu.Unlock()
		return models.JourneySnapshot{}, apperr.ErrWaypointNotFound
	}
	if w.IsEndpoint() {
		s.mu.Unlock()
		return models.JourneySnapshot{}, apperr.ErrEndpointImmutable
	}
	s.mu.Unlock()

	coords, err := s.source.Current(ctx)
	if err != nil {
		return models.JourneySnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Started() {
		return models.JourneySnapshot{}, apperr.ErrJourneyStarted
	}
	w = s.state.Waypoint(id)
	if w == nil {
		return models.JourneySnapshot{}, apperr.ErrWaypointNotFound
	}

	radius := models.DefaultRadiusMeters
	if w.Target != nil && w.Target.RadiusMeters > 0 {
		radius = w.Target.RadiusMeters
	}
	w.Target = &models.Target{
		Lat:          coords.Lat,
		Lng:          coords.Lng,
		RadiusMeters: radius,
	}
	s.persistLocked()
	return s.snapshotLocked(), nil
}
