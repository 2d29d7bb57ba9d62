// Package registry provides a process-wide keyed singleton manager with
// create-if-absent semantics and a single in-flight creation guard:
// concurrent acquires of the same key share one creation attempt instead
// of racing to construct duplicates.
package registry

import (
	"context"
	"sync"
)

type entry[T any] struct {
	ready chan struct{} // closed once val/err are set
	val   T
	err   error
}

// Registry holds at most one live value per key.
type Registry[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]*entry[T])}
}

// Acquire returns the value registered under key, creating it with the
// given constructor if absent. While a creation is in flight, other
// acquirers of the same key wait for its outcome rather than starting a
// second one. A failed creation is not memoized: the next Acquire
// retries.
func (r *Registry[T]) Acquire(ctx context.Context, key string, create func(ctx context.Context) (T, error)) (T, error) {
	r.mu.Lock()
	if e, ok := r.entries[key]; ok {
		r.mu.Unlock()

		select {
		case <-e.ready:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
		if e.err != nil {
			// Creation failed after we joined the wait; retry fresh.
			return r.Acquire(ctx, key, create)
		}
		return e.val, nil
	}

	e := &entry[T]{ready: make(chan struct{})}
	r.entries[key] = e
	r.mu.Unlock()

	e.val, e.err = create(ctx)
	if e.err != nil {
		r.mu.Lock()
		if r.entries[key] == e {
			delete(r.entries, key)
		}
		r.mu.Unlock()
	}
	close(e.ready)

	return e.val, e.err
}

// Release removes the value registered under key and, if one was
// resolved, passes it to dispose. Releasing an absent key is a no-op.
func (r *Registry[T]) Release(key string, dispose func(T)) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if ok {
		delete(r.entries, key)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	<-e.ready
	if e.err == nil && dispose != nil {
		dispose(e.val)
	}
}

// Len returns the number of registered keys, counting in-flight creations.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Keys returns the currently registered keys, in no particular order.
func (r *Registry[T]) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}
