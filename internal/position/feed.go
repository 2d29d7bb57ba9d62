// Package position models the device geolocation contract: a one-shot
// "current position" query and a continuous watch subscription, both fed
// by position updates the device reports over the API.
package position

import (
	"context"
	"sync"
	"time"

	"github.com/peerpath/journey-backend-go/internal/apperr"
	"github.com/peerpath/journey-backend-go/internal/models"
)

// Source is what the journey tracker consumes: a one-shot fix with a
// bounded wait, a cancellable live subscription, and the entry point
// device position reports are pushed through. A reported position must
// be observable by a Current call that follows it.
type Source interface {
	Current(ctx context.Context) (models.LatLng, error)
	Watch() (<-chan models.LatLng, func())
	Push(p models.LatLng)
}

const (
	// DefaultFixTimeout bounds how long Current waits for a fix before
	// reporting the location as unavailable.
	DefaultFixTimeout = 10 * time.Second

	// DefaultMaxFixAge is how old a cached fix may be and still satisfy
	// a one-shot query without waiting for the next update.
	DefaultMaxFixAge = 5 * time.Second

	watchBuffer = 16
)

type sample struct {
	pt models.LatLng
	at time.Time
}

// Feed is a push-driven position source. Device position reports are
// pushed in; one-shot queries and watch subscribers are served from the
// same stream. The zero value is not usable; call NewFeed.
type Feed struct {
	mu      sync.Mutex
	last    *sample
	waiters []chan models.LatLng
	subs    map[int]chan models.LatLng
	nextSub int

	fixTimeout time.Duration
	maxFixAge  time.Duration
	now        func() time.Time
}

// NewFeed returns a feed with the default fix timeout and max fix age.
func NewFeed() *Feed {
	return &Feed{
		subs:       make(map[int]chan models.LatLng),
		fixTimeout: DefaultFixTimeout,
		maxFixAge:  DefaultMaxFixAge,
		now:        time.Now,
	}
}

// Push records a device position report, resolves any pending one-shot
// queries and fans the update out to watch subscribers. Slow subscribers
// miss updates rather than block the feed.
func (f *Feed) Push(p models.LatLng) {
	f.mu.Lock()
	f.last = &sample{pt: p, at: f.now()}

	waiters := f.waiters
	f.waiters = nil

	for _, ch := range f.subs {
		select {
		case ch <- p:
		default:
		}
	}
	f.mu.Unlock()

	for _, w := range waiters {
		w <- p
	}
}

// Current returns the device position: a sufficiently fresh cached fix
// if one exists, otherwise the next pushed update, waiting at most the
// fix timeout. Failure means apperr.ErrLocationUnavailable.
func (f *Feed) Current(ctx context.Context) (models.LatLng, error) {
	f.mu.Lock()
	if f.last != nil && f.now().Sub(f.last.at) <= f.maxFixAge {
		pt := f.last.pt
		f.mu.Unlock()
		return pt, nil
	}

	w := make(chan models.LatLng, 1)
	f.waiters = append(f.waiters, w)
	f.mu.Unlock()

	timer := time.NewTimer(f.fixTimeout)
	defer timer.Stop()

	select {
	case pt := <-w:
		return pt, nil
	case <-timer.C:
		f.dropWaiter(w)
		return models.LatLng{}, apperr.ErrLocationUnavailable
	case <-ctx.Done():
		f.dropWaiter(w)
		return models.LatLng{}, apperr.ErrLocationUnavailable
	}
}

func (f *Feed) dropWaiter(w chan models.LatLng) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.waiters {
		if c == w {
			f.waiters = append(f.waiters[:i], f.waiters[i+1:]...)
			return
		}
	}
}

// Watch subscribes to live position updates. The returned cancel func is
// idempotent: it is safe to call more than once, or after the feed has
// seen no updates at all. The channel is closed on cancel.
func (f *Feed) Watch() (<-chan models.LatLng, func()) {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	ch := make(chan models.LatLng, watchBuffer)
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// SetFixTimeout overrides the one-shot wait bound. Intended for tests.
func (f *Feed) SetFixTimeout(d time.Duration) { f.fixTimeout = d }

// SetMaxFixAge overrides the cached-fix freshness bound. Intended for tests.
func (f *Feed) SetMaxFixAge(d time.Duration) { f.maxFixAge = d }
