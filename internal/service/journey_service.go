package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/peerpath/journey-backend-go/internal/apperr"
	"github.com/peerpath/journey-backend-go/internal/models"
	"github.com/peerpath/journey-backend-go/internal/otp"
	"github.com/peerpath/journey-backend-go/internal/position"
	"github.com/peerpath/journey-backend-go/internal/repository"
)

// StateStore is the persistence surface the tracker needs.
type StateStore interface {
	Save(key string, state models.JourneyState) error
	Load(key string) (*models.JourneyState, error)
	Archive(key string, state models.JourneyState) error
	ListArchived(key string, limit int) ([]repository.ArchivedJourney, error)
}

// JourneyService owns one session's journey state machine. It is the
// single writer: HTTP handlers and the live-position watch goroutine all
// mutate state through its methods, serialized by the mutex. Every
// transition is followed by a persistence write; write failures are
// logged and swallowed so a storage hiccup never wedges the journey.
type JourneyService struct {
	mu       sync.Mutex
	key      string
	state    models.JourneyState
	activeID string
	live     *models.LatLng

	store  StateStore
	source position.Source
	newOTP otp.Generator
	now    func() time.Time

	cancelWatch func() // idempotent; nil while no subscription is live
}

// NewJourneyService restores the session's saved state (absent or
// corrupt saved state yields the two-endpoint default) and, if the
// journey was mid-flight when the process went down, resumes the live
// position subscription.
func NewJourneyService(key string, store StateStore, source position.Source) *JourneyService {
	s := &JourneyService{
		key:    key,
		state:  models.DefaultJourneyState(),
		store:  store,
		source: source,
		newOTP: otp.NewCode,
		now:    time.Now,
	}

	if saved, err := store.Load(key); err != nil {
		log.Printf("journey %s: load failed, starting fresh: %v", key, err)
	} else if saved != nil {
		s.state = *saved
	}

	if s.state.Started() && !s.state.Completed {
		s.startWatch()
	}

	return s
}

// Snapshot returns a deep copy of the current state plus the transient
// focus and live-fix fields.
func (s *JourneyService) Snapshot() models.JourneySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *JourneyService) snapshotLocked() models.JourneySnapshot {
	snap := models.JourneySnapshot{
		JourneyState:     s.state.Clone(),
		ActiveWaypointID: s.activeID,
	}
	if s.live != nil {
		p := *s.live
		snap.LiveCoords = &p
	}
	return snap
}

// Start begins the journey: validates that every waypoint has a target,
// captures the start fix, stamps the start, issues the departure code
// and subscribes to live position updates.
func (s *JourneyService) Start(ctx context.Context) (models.JourneySnapshot, error) {
	s.mu.Lock()
	if s.state.Started() {
		s.mu.Unlock()
		return models.JourneySnapshot{}, apperr.ErrJourneyStarted
	}
	for i := range s.state.Waypoints {
		if s.state.Waypoints[i].Target == nil {
			s.mu.Unlock()
			return models.JourneySnapshot{}, apperr.ErrMissingTargets
		}
	}
	s.mu.Unlock()

	// Location capture can block up to the fix timeout; never hold the
	// lock across it.
	coords, err := s.source.Current(ctx)
	if err != nil {
		return models.JourneySnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// State may have moved while the fix was pending; re-check.
	if s.state.Started() {
		return models.JourneySnapshot{}, apperr.ErrJourneyStarted
	}
	for i := range s.state.Waypoints {
		if s.state.Waypoints[i].Target == nil {
			return models.JourneySnapshot{}, apperr.ErrMissingTargets
		}
	}

	s.state.StartedAt = s.now().UTC().Format(time.RFC3339)
	s.state.StartCoords = &coords
	s.issueLocked(models.WaypointDepart)
	s.startWatch()
	s.persistLocked()

	log.Printf("journey %s: started, departure code issued", s.key)
	return s.snapshotLocked(), nil
}

// TriggerOTP manually issues the code for a waypoint and gives it input
// focus. Triggering a waypoint that already holds a code only moves
// focus; a verified waypoint cannot be re-triggered.
func (s *JourneyService) TriggerOTP(id string) (models.JourneySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Started() {
		return models.JourneySnapshot{}, apperr.ErrJourneyNotStarted
	}
	if s.state.Completed {
		return models.JourneySnapshot{}, apperr.ErrJourneyCompleted
	}
	w := s.state.Waypoint(id)
	if w == nil {
		return models.JourneySnapshot{}, apperr.ErrWaypointNotFound
	}
	if w.Verified {
		return models.JourneySnapshot{}, apperr.ErrWaypointVerified
	}

	if w.OTP == "" {
		s.issueLocked(id)
		s.persistLocked()
	} else {
		s.activeID = id
	}
	return s.snapshotLocked(), nil
}

// issueLocked transitions a pending waypoint to code-issued and focuses it.
func (s *JourneyService) issueLocked(id string) {
	w := s.state.Waypoint(id)
	if w == nil || w.Verified {
		return
	}
	w.OTP = s.newOTP()
	s.activeID = id
}

// Verify checks the entered code for the waypoint (the focused one when
// id is empty) and, on a match, captures the device position and stamps
// the verification. A failed location capture leaves the waypoint
// code-issued and retryable.
func (s *JourneyService) Verify(ctx context.Context, id, input string) (models.JourneySnapshot, error) {
	s.mu.Lock()
	if id == "" {
		id = s.activeID
	}
	w := s.state.Waypoint(id)
	if w == nil {
		s.mu.Unlock()
		return models.JourneySnapshot{}, apperr.ErrWaypointNotFound
	}
	if w.Verified {
		s.mu.Unlock()
		return models.JourneySnapshot{}, apperr.ErrWaypointVerified
	}
	if w.OTP == "" {
		s.mu.Unlock()
		return models.JourneySnapshot{}, apperr.ErrOTPNotIssued
	}
	if len(input) < 4 {
		s.mu.Unlock()
		return models.JourneySnapshot{}, apperr.ErrOTPTooShort
	}
	if !otp.Matches(w.OTP, input) {
		s.mu.Unlock()
		return models.JourneySnapshot{}, apperr.ErrOTPIncorrect
	}
	s.mu.Unlock()

	coords, err := s.source.Current(ctx)
	if err != nil {
		return models.JourneySnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// State may have moved while the fix was pending; re-check.
	w = s.state.Waypoint(id)
	if w == nil {
		return models.JourneySnapshot{}, apperr.ErrWaypointNotFound
	}
	if w.Verified {
		return models.JourneySnapshot{}, apperr.ErrWaypointVerified
	}
	if !otp.Matches(w.OTP, input) {
		return models.JourneySnapshot{}, apperr.ErrOTPIncorrect
	}

	w.Verified = true
	w.Timestamp = s.now().UTC().Format(time.RFC3339)
	w.Coords = &coords
	if s.activeID == id {
		s.activeID = ""
	}
	s.persistLocked()

	log.Printf("journey %s: waypoint %s verified", s.key, id)
	return s.snapshotLocked(), nil
}

// Complete finalizes the journey once every waypoint is verified, stops
// the live subscription and archives the finished journey.
func (s *JourneyService) Complete() (models.JourneySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Started() {
		return models.JourneySnapshot{}, apperr.ErrJourneyNotStarted
	}
	if s.state.Completed {
		return models.JourneySnapshot{}, apperr.ErrJourneyCompleted
	}
	if !s.state.AllVerified() {
		return models.JourneySnapshot{}, apperr.ErrUnverifiedRemain
	}

	s.state.Completed = true
	s.state.EndedAt = s.now().UTC().Format(time.RFC3339)
	s.stopWatchLocked()
	s.persistLocked()

	if err := s.store.Archive(s.key, s.state); err != nil {
		log.Printf("journey %s: archive failed: %v", s.key, err)
	}

	log.Printf("journey %s: completed", s.key)
	return s.snapshotLocked(), nil
}

// Reset discards all progress from any state, cancels the live
// subscription and returns to the two-endpoint planning default.
func (s *JourneyService) Reset() models.JourneySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopWatchLocked()
	s.state = models.DefaultJourneyState()
	s.activeID = ""
	s.live = nil
	s.persistLocked()

	log.Printf("journey %s: reset", s.key)
	return s.snapshotLocked()
}

// History lists finished journeys for this session, newest first.
func (s *JourneyService) History(limit int) ([]repository.ArchivedJourney, error) {
	return s.store.ListArchived(s.key, limit)
}

// ReportPosition feeds one device position tick into the tracker: the
// source gets it (resolving pending one-shot queries), and the geofence
// scan runs synchronously so the caller's next read reflects the tick.
// The watch path may deliver the same point again; the scan only ever
// moves waypoints forward, so the second pass is a no-op.
func (s *JourneyService) ReportPosition(p models.LatLng) models.JourneySnapshot {
	s.source.Push(p)
	s.handlePosition(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels the live subscription. Safe to call at any time, any
// number of times.
func (s *JourneyService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatchLocked()
}

// startWatch subscribes to the position source and pumps deliveries into
// the geofence scan. Caller holds the lock or is the constructor.
func (s *JourneyService) startWatch() {
	ch, cancel := s.source.Watch()
	s.cancelWatch = cancel
	go func() {
		for p := range ch {
			s.handlePosition(p)
		}
	}()
}

func (s *JourneyService) stopWatchLocked() {
	if s.cancelWatch != nil {
		s.cancelWatch()
		s.cancelWatch = nil
	}
}

// handlePosition runs one geofence tick: records the live fix and issues
// codes for every still-pending waypoint whose geofence now contains the
// holder. The first newly triggered waypoint in sequence order takes
// focus; the rest keep their issued codes until focus moves manually.
func (s *JourneyService) handlePosition(p models.LatLng) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.live = &p
	if !s.state.Started() || s.state.Completed {
		return
	}

	entered := scanGeofences(&s.state, p)
	if len(entered) == 0 {
		return
	}

	for _, id := range entered {
		if w := s.state.Waypoint(id); w != nil {
			w.OTP = s.newOTP()
			log.Printf("journey %s: %s code auto-issued (within %.0fm)", s.key, w.Label, w.Target.RadiusMeters)
		}
	}
	s.activeID = entered[0]
	s.persistLocked()
}

func (s *JourneyService) persistLocked() {
	if err := s.store.Save(s.key, s.state); err != nil {
		// Fire and forget: a failed write must not block the journey.
		log.Printf("journey %s: state save failed: %v", s.key, err)
	}
}

// SetOTPGenerator swaps the code generator. Intended for tests.
func (s *JourneyService) SetOTPGenerator(gen otp.Generator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newOTP = gen
}

// SetClock swaps the time source. Intended for tests.
func (s *JourneyService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
