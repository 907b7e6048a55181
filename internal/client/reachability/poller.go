package reachability

import (
	"context"
	"time"

	"github.com/pedro664/PLANTA-sub001/internal/logging"
)

const (
	pingTimeout = 3 * time.Second
	// DefaultInterval replaces a non-positive poll interval.
	DefaultInterval = 3 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Poller derives reachability from periodic pings. It starts offline, so the
// first successful ping is reported as a transition.
type Poller struct {
	notifier

	pinger   Pinger
	interval time.Duration

	// forced keeps the monitor offline regardless of ping results.
	forced bool
}

func NewPoller(p Pinger, interval time.Duration, log logging.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	pl := &Poller{pinger: p, interval: interval}
	pl.log = log
	return pl
}

// Check pings once and updates the state.
func (p *Poller) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := p.pinger.Ping(pctx)
	cancel()

	var online bool
	changed := p.update(func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		online = err == nil && !p.forced
		return online
	})
	if changed && p.log != nil {
		p.log.Info(ctx, "reachability changed", "online", online)
	}
	return online
}

// ForceOffline pins the monitor offline until called with false; the next
// Check then reports the real state.
func (p *Poller) ForceOffline(ctx context.Context, forced bool) {
	p.mu.Lock()
	p.forced = forced
	p.mu.Unlock()

	if forced {
		p.set(false)
		return
	}
	p.Check(ctx)
}

// Run checks immediately and then every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
