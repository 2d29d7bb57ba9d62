package service

import (
	"context"

	"github.com/peerpath/journey-backend-go/internal/mapview"
	"github.com/peerpath/journey-backend-go/internal/position"
	"github.com/peerpath/journey-backend-go/internal/registry"
)

// Session bundles everything live for one subject: the journey state
// machine, the position feed it watches, and the map view tracking what
// that subject's renderer has drawn.
type Session struct {
	Journey *JourneyService
	Feed    *position.Feed
	View    *mapview.View
}

// SessionManager hands out at most one live Session per subject.
// Concurrent first requests for a subject share a single construction
// through the registry's in-flight guard, so remounting clients cannot
// end up with duplicate trackers watching the same feed.
type SessionManager struct {
	reg   *registry.Registry[*Session]
	store StateStore
}

// NewSessionManager creates a session manager over the given store.
func NewSessionManager(store StateStore) *SessionManager {
	return &SessionManager{
		reg:   registry.New[*Session](),
		store: store,
	}
}

// Session returns the subject's live session, creating it (and restoring
// any saved journey state) on first use.
func (m *SessionManager) Session(ctx context.Context, subject string) (*Session, error) {
	return m.reg.Acquire(ctx, subject, func(ctx context.Context) (*Session, error) {
		feed := position.NewFeed()
		return &Session{
			Journey: NewJourneyService(subject, m.store, feed),
			Feed:    feed,
			View:    mapview.NewView(),
		}, nil
	})
}

// Release drops the subject's session and cancels its live subscription.
func (m *SessionManager) Release(subject string) {
	m.reg.Release(subject, func(s *Session) {
		s.Journey.Close()
	})
}

// Close releases every live session. Called on shutdown.
func (m *SessionManager) Close() {
	for _, key := range m.reg.Keys() {
		m.Release(key)
	}
}
