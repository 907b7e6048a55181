// Package reachability reports whether the remote data service can be
// reached and notifies subscribers when that changes.
package reachability

import (
	"context"
	"sync"

	"github.com/pedro664/PLANTA-sub001/internal/logging"
)

// Monitor is consumed by the sync engine. OnChange callbacks fire only on
// transitions, never for repeated identical states.
type Monitor interface {
	IsOnline() bool
	OnChange(fn func(online bool)) (unsubscribe func())
}

type subscriber struct {
	id int
	fn func(bool)
}

// notifier holds the current state and subscriber list shared by every
// Monitor implementation in this package.
type notifier struct {
	// deliver serializes transitions so subscribers observe them in order.
	deliver sync.Mutex

	mu     sync.Mutex
	online bool
	nextID int
	subs   []subscriber
	log    logging.Logger
}

func (n *notifier) IsOnline() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.online
}

func (n *notifier) OnChange(fn func(online bool)) func() {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscriber{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, s := range n.subs {
				if s.id == id {
					n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// set records the new state and, on a transition, invokes subscribers
// outside mu. It reports whether the state changed.
func (n *notifier) set(online bool) bool {
	return n.update(func() bool { return online })
}

// update evaluates target and applies it under deliver, so a state decided
// from other fields cannot be overtaken by a concurrent transition.
// Subscribers must not change the state from inside their callback.
func (n *notifier) update(target func() bool) bool {
	n.deliver.Lock()
	defer n.deliver.Unlock()

	online := target()
	n.mu.Lock()
	if n.online == online {
		n.mu.Unlock()
		return false
	}
	n.online = online
	subs := append([]subscriber(nil), n.subs...)
	n.mu.Unlock()

	for _, s := range subs {
		n.invoke(s.fn, online)
	}
	return true
}

func (n *notifier) invoke(fn func(bool), online bool) {
	defer func() {
		if r := recover(); r != nil && n.log != nil {
			n.log.Error(context.Background(), "reachability subscriber panicked", "panic", r)
		}
	}()
	fn(online)
}
