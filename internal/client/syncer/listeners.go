package syncer

import (
	"context"
	"sync"

	"github.com/pedro664/PLANTA-sub001/internal/logging"
)

// Listener observes engine status transitions. It is called synchronously by
// the notifying pass and must not block for long.
type Listener func(state State, result Result)

type listenerEntry struct {
	id int
	fn Listener
}

// Registry keeps listeners in subscription order.
type Registry struct {
	mu      sync.Mutex
	nextID  int
	entries []listenerEntry
	log     logging.Logger
}

func NewRegistry(log logging.Logger) *Registry {
	return &Registry{log: log}
}

// Subscribe adds l and returns a function removing it. Calling the returned
// function more than once is harmless.
func (r *Registry) Subscribe(l Listener) func() {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, listenerEntry{id: id, fn: l})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Registry) remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Notify calls every listener outside the registry lock. A panicking listener
// is logged and skipped.
func (r *Registry) Notify(ctx context.Context, state State, result Result) {
	r.mu.Lock()
	entries := append([]listenerEntry(nil), r.entries...)
	r.mu.Unlock()

	for _, e := range entries {
		r.call(ctx, e, state, result)
	}
}

func (r *Registry) call(ctx context.Context, e listenerEntry, state State, result Result) {
	defer func() {
		if rec := recover(); rec != nil && r.log != nil {
			r.log.Error(ctx, "status listener panicked", "listener", e.id, "state", state, "panic", rec)
		}
	}()
	e.fn(state, result)
}
