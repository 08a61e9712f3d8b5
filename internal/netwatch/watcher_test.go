package netwatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/loom-social/loom/internal/bus"
)

type fakeProber struct {
	mu  sync.Mutex
	err error
}

func (f *fakeProber) Health(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeProber) set(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func waitFor(t *testing.T, ch <-chan bus.Event, kind string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == kind {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", kind)
		}
	}
}

func TestInitialProbePublishesState(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("net.", 8)
	defer unsub()

	w := New(&fakeProber{}, b, nil, 10*time.Millisecond)
	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, ch, bus.KindNetOnline)
	if !w.Online() {
		t.Error("Online() should report true after a healthy probe")
	}
}

func TestTransitionsPublishEvents(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("net.", 8)
	defer unsub()

	prober := &fakeProber{}
	w := New(prober, b, nil, 10*time.Millisecond)
	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, ch, bus.KindNetOnline)

	prober.set(errors.New("connection refused"))
	waitFor(t, ch, bus.KindNetOffline)
	if w.Online() {
		t.Error("Online() should report false after a failed probe")
	}

	prober.set(nil)
	waitFor(t, ch, bus.KindNetOnline)
	if !w.Online() {
		t.Error("Online() should report true again after recovery")
	}
}

func TestOnlineFalseBeforeFirstProbe(t *testing.T) {
	w := New(&fakeProber{}, bus.New(), nil, time.Minute)
	if w.Online() {
		t.Error("Online() must be false before the watcher starts")
	}
}
