// Package search debounces incremental lookups. Each call for a key takes
// a generation token; a call overtaken by a newer one for the same key is
// dropped before it fires, and its result is discarded if it was already
// in flight.
package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDelay is the quiet period before a lookup fires.
const DefaultDelay = 300 * time.Millisecond

// ErrSuperseded is returned to a call that a newer call for the same key
// has replaced.
var ErrSuperseded = errors.New("search: superseded by a newer query")

// Debouncer is safe for concurrent use. Generations come from one counter
// shared by all keys and never go back, so a forgotten key that is reused
// cannot hand an old call's generation to a new one.
type Debouncer[T any] struct {
	delay time.Duration
	seq   atomic.Uint64

	mu   sync.Mutex
	gens map[string]uint64
}

func NewDebouncer[T any](delay time.Duration) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{delay: delay, gens: make(map[string]uint64)}
}

func (d *Debouncer[T]) next(key string) uint64 {
	gen := d.seq.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gens[key] = gen
	return gen
}

func (d *Debouncer[T]) current(key string, gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gens[key] == gen
}

// finish forgets key once its newest call is done.
func (d *Debouncer[T]) finish(key string, gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gens[key] == gen {
		delete(d.gens, key)
	}
}

// Do waits for the debounce delay and then runs fn, unless a newer call
// for key arrives first. A result that resolves after a newer call started
// is discarded with ErrSuperseded.
func (d *Debouncer[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	gen := d.next(key)

	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		d.finish(key, gen)
		return zero, ctx.Err()
	case <-timer.C:
	}

	if !d.current(key, gen) {
		return zero, ErrSuperseded
	}

	v, err := fn(ctx)
	if !d.current(key, gen) {
		return zero, ErrSuperseded
	}
	d.finish(key, gen)
	return v, err
}

// Pending is the number of keys with a call in progress.
func (d *Debouncer[T]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.gens)
}
