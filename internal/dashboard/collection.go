package dashboard

import "sync"

// State distinguishes a collection that was never fetched from one
// that legitimately loaded empty.
type State int

const (
	NotLoaded State = iota
	Loading
	Loaded
)

// Collection is one dashboard's in-memory copy of a server-owned
// entity set. Loads carry a generation number so a response that
// arrives after a newer load began is discarded instead of clobbering
// fresher data. Optimistic mutations hand back a restore closure for
// rollback when the server call fails.
type Collection[T any] struct {
	mu    sync.Mutex
	state State
	prev  State
	gen   uint64
	items []T
}

func (c *Collection[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns a copy of the current snapshot.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Begin marks a load in flight and returns its generation.
func (c *Collection[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Loading {
		c.prev = c.state
	}
	c.state = Loading
	c.gen++
	return c.gen
}

// Complete installs a load result. Stale generations are dropped; the
// return value reports whether the result was kept.
func (c *Collection[T]) Complete(gen uint64, items []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.items = items
	c.state = Loaded
	return true
}

// Fail abandons a load. The collection falls back to its pre-load
// state, keeping previously loaded items.
func (c *Collection[T]) Fail(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.state != Loading {
		return
	}
	c.state = c.prev
}

// Invalidate drops the snapshot so the next overview pass refetches.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.state = NotLoaded
	c.gen++
}

// Remove filters out matching items and returns a rollback closure.
// Removing an id that is not present restores to an identical
// snapshot, so the whole operation is a no-op.
func (c *Collection[T]) Remove(match func(T) bool) (restore func(), removed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := append([]T(nil), c.items...)
	kept := c.items[:0:0]
	for _, it := range c.items {
		if match(it) {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
	return c.restoreFunc(snapshot), removed
}

// Update mutates matching items in place and returns a rollback
// closure. Non-matching items are untouched.
func (c *Collection[T]) Update(match func(T) bool, mutate func(*T)) (restore func(), updated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := append([]T(nil), c.items...)
	for i := range c.items {
		if match(c.items[i]) {
			mutate(&c.items[i])
			updated = true
		}
	}
	return c.restoreFunc(snapshot), updated
}

func (c *Collection[T]) restoreFunc(snapshot []T) func() {
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.items = snapshot
	}
}
