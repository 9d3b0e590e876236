// Package overlay holds the named, togglable groups of map display elements
// served to the widget. Each collection has a single writer (its feed task)
// and any number of readers; readers always see a complete snapshot.
package overlay

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Snapshot is one complete generation of an overlay.
type Snapshot[T any] struct {
	Items     T
	UpdatedAt time.Time
	Populated bool
}

// Collection stores the latest snapshot of an overlay. The zero value is not
// usable; create one with New.
type Collection[T any] struct {
	name    string
	clock   clockwork.Clock
	current atomic.Pointer[Snapshot[T]]
}

// New creates an empty, unpopulated collection.
func New[T any](name string, clock clockwork.Clock) *Collection[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	c := &Collection[T]{name: name, clock: clock}
	c.current.Store(&Snapshot[T]{})
	return c
}

// Name returns the label shown in the layer control.
func (c *Collection[T]) Name() string { return c.name }

// Replace swaps in a full new generation. There is no incremental update.
func (c *Collection[T]) Replace(items T) {
	c.current.Store(&Snapshot[T]{
		Items:     items,
		UpdatedAt: c.clock.Now().UTC(),
		Populated: true,
	})
}

// Snapshot returns the current generation. Callers must not mutate Items.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	return *c.current.Load()
}
