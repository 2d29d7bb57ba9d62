package mapview

import (
	"reflect"
	"sync"
)

// Op actions
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
)

// Op is one reconciliation step against a rendered layer set.
type Op struct {
	Action string `json:"action"`
	Layer  Layer  `json:"layer"`
}

// Diff computes the operations that turn prev into next, keyed by layer
// id. Unchanged layers produce no op, so a renderer applying the result
// updates in place instead of tearing layers down and recreating them.
// Removes come first, then adds and updates in next's order.
func Diff(prev, next LayerSet) []Op {
	prevByID := make(map[string]Layer, len(prev.Layers))
	for _, l := range prev.Layers {
		prevByID[l.ID] = l
	}
	nextIDs := make(map[string]bool, len(next.Layers))
	for _, l := range next.Layers {
		nextIDs[l.ID] = true
	}

	var ops []Op
	for _, l := range prev.Layers {
		if !nextIDs[l.ID] {
			ops = append(ops, Op{Action: OpRemove, Layer: Layer{ID: l.ID, Kind: l.Kind}})
		}
	}
	for _, l := range next.Layers {
		old, ok := prevByID[l.ID]
		switch {
		case !ok:
			ops = append(ops, Op{Action: OpAdd, Layer: l})
		case !reflect.DeepEqual(old, l):
			ops = append(ops, Op{Action: OpUpdate, Layer: l})
		}
	}
	return ops
}

// View tracks the layer set last handed to a renderer and produces the
// ops needed to catch it up with a fresh set.
type View struct {
	mu   sync.Mutex
	prev LayerSet
}

// NewView returns a view that has rendered nothing yet.
func NewView() *View {
	return &View{}
}

// Sync diffs the given set against what was last served, records it as
// served and returns the set together with the catch-up ops.
func (v *View) Sync(next LayerSet) (LayerSet, []Op) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ops := Diff(v.prev, next)
	v.prev = next
	return next, ops
}

// Reset forgets the served set, so the next Sync emits adds for
// everything. Called when the renderer side starts from a blank canvas.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.prev = LayerSet{}
}
