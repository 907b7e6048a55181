package reachability

import "github.com/pedro664/PLANTA-sub001/internal/logging"

// Manual is a Monitor whose state is set by the caller: tests and the
// REPL's forced offline mode.
type Manual struct {
	notifier
}

func NewManual(online bool, log logging.Logger) *Manual {
	m := &Manual{}
	m.online = online
	m.log = log
	return m
}

func (m *Manual) SetOnline(online bool) {
	m.set(online)
}
