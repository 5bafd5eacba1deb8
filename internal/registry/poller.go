// Package registry: periodic reconciliation between the external store and
// the registry (spec §4.G). Ported from the teacher's closest analogue —
// original_source's ManagerBuilder.build() tokio::spawn loop — to a
// time.Ticker-driven goroutine, the idiomatic Go equivalent.
package registry

import (
	"context"
	"sync/atomic"
	"time"

	"jamsd/internal/metrics"
)

// Poller runs Loader.Reconcile on a fixed interval. It is started iff a
// positive interval is configured (spec §4.G) and guards against
// overlapping ticks with an atomic flag: a tick never runs concurrently
// with itself (spec §4.G rule 6).
type Poller struct {
	loader   *Loader
	interval time.Duration
	running  atomic.Bool
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller constructs a Poller. Start is a no-op if interval <= 0.
func NewPoller(loader *Loader, interval time.Duration) *Poller {
	return &Poller{loader: loader, interval: interval, stop: make(chan struct{}), done: make(chan struct{})}
}

// Start launches the background ticker goroutine. Safe to call at most
// once; the returned bool reports whether polling was actually started
// (false when the configured interval is non-positive).
func (p *Poller) Start(ctx context.Context) bool {
	if p.interval <= 0 {
		close(p.done)
		return false
	}
	go p.run(ctx)
	return true
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick runs one reconciliation pass if one is not already in flight; a
// tick that would overlap a running one is skipped entirely (spec §4.G
// rule 6), not queued.
func (p *Poller) tick(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		metrics.PollSkippedTotal.Inc()
		p.loader.Log.Warn().Str("component", "poller").Msg("skipping tick: previous reconciliation still running")
		return
	}
	defer p.running.Store(false)

	p.loader.Log.Debug().Str("component", "poller").Msg("reconciliation tick starting")
	if err := p.loader.Reconcile(ctx); err != nil {
		metrics.PollFailuresTotal.Inc()
		p.loader.Log.Error().Str("component", "poller").Err(err).Msg("reconciliation tick failed")
		return
	}
	metrics.PollTicksTotal.Inc()
}

// TickNow runs one reconciliation pass immediately, outside the ticker
// schedule, without affecting the overlap guard's timing. If a tick is
// already running it returns nil without reconciling.
func (p *Poller) TickNow(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return nil
	}
	defer p.running.Store(false)
	return p.loader.Reconcile(ctx)
}

// Stop signals the background goroutine to exit and waits for it.
func (p *Poller) Stop() {
	select {
	case <-p.done:
		return
	default:
	}
	close(p.stop)
	<-p.done
}
