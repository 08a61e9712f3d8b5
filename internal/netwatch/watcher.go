package netwatch

import (
	"context"
	"sync"
	"time"

	"github.com/loom-social/loom/internal/bus"
	"go.uber.org/zap"
)

// Prober checks backend reachability. The platform client's health endpoint
// satisfies this.
type Prober interface {
	Health(ctx context.Context) error
}

// DefaultInterval is how often the watcher probes the backend.
const DefaultInterval = 15 * time.Second

const probeTimeout = 5 * time.Second

// Watcher polls the backend health endpoint and publishes net.online /
// net.offline events on transitions. It also answers point-in-time
// reachability queries for callers that need to branch on connectivity.
type Watcher struct {
	prober   Prober
	bus      *bus.Bus
	logger   *zap.Logger
	interval time.Duration

	mu     sync.RWMutex
	online bool
	known  bool

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a connectivity watcher. A non-positive interval falls back to
// DefaultInterval.
func New(prober Prober, b *bus.Bus, logger *zap.Logger, interval time.Duration) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		prober:   prober,
		bus:      b,
		logger:   logger,
		interval: interval,
	}
}

// Online reports the last observed reachability. Before the first probe
// completes it reports false.
func (w *Watcher) Online() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.online
}

// Start probes once immediately, then on every tick until Stop or context
// cancellation.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		w.probe(ctx)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.probe(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the probe loop and waits for it to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

func (w *Watcher) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := w.prober.Health(ctx)
	online := err == nil

	w.mu.Lock()
	changed := !w.known || online != w.online
	w.online = online
	w.known = true
	w.mu.Unlock()

	if !changed {
		return
	}

	if online {
		w.logger.Info("backend reachable")
		w.bus.Publish(bus.Event{Kind: bus.KindNetOnline, Timestamp: time.Now()})
	} else {
		w.logger.Warn("backend unreachable", zap.Error(err))
		w.bus.Publish(bus.Event{Kind: bus.KindNetOffline, Timestamp: time.Now()})
	}
}
