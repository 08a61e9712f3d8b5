package daemon

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/loom-social/loom/internal/api"
	"github.com/loom-social/loom/internal/bus"
	"github.com/loom-social/loom/internal/lock"
	"github.com/loom-social/loom/internal/platform"
	"github.com/loom-social/loom/internal/resolver"
	"github.com/loom-social/loom/internal/status"
	"github.com/loom-social/loom/internal/store"
	"github.com/loom-social/loom/internal/wardrobe"
	"go.uber.org/zap"
)

type offlineNet struct{}

func (offlineNet) Online() bool { return false }

// socketClient returns an HTTP client dialing the given Unix socket.
func socketClient(socketPath string) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socketPath)
			},
		},
		Timeout: 5 * time.Second,
	}
}

func TestDaemonLifecycle(t *testing.T) {
	// Use a short path to avoid macOS 104-char Unix socket limit.
	tmpDir, err := os.MkdirTemp("/tmp", "loom-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	profileName := "test"
	profileDir := filepath.Join(tmpDir, profileName)
	socketPath := filepath.Join(profileDir, "d.sock")

	if err := os.MkdirAll(profileDir, 0700); err != nil {
		t.Fatal(err)
	}

	lk, err := lock.Acquire(profileDir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = lk.Release() }()

	db, err := store.Open(filepath.Join(profileDir, "loom.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	// Wire the daemon against an unreachable backend: everything must still
	// serve from the cache.
	logger := zap.NewNop()
	b := bus.New()
	machine := status.NewMachine(b)
	client := platform.NewClient("http://127.0.0.1:1", "")
	nw := offlineNet{}
	engine := wardrobe.NewEngine(db, client, nw, b, machine, logger)
	res := resolver.New(client, client, logger)

	p := Params{ProfileName: profileName, SocketPath: socketPath}
	srv, err := NewServer(
		p,
		logger,
		api.NewStatusHandler(machine, nw, engine, db, profileName, logger),
		api.NewItemHandler(engine, logger),
		api.NewParticipantHandler(res, logger),
	)
	if err != nil {
		t.Fatal(err)
	}
	go func() { _ = srv.Start() }()
	defer srv.Stop(context.Background())

	time.Sleep(50 * time.Millisecond)

	hc := socketClient(socketPath)

	// Status over the socket.
	resp, err := hc.Get("http://loom/v1/status")
	if err != nil {
		t.Fatalf("status request error = %v", err)
	}
	defer resp.Body.Close()
	var st api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Profile != profileName {
		t.Errorf("profile = %q, want %q", st.Profile, profileName)
	}
	if st.State != status.Booting {
		t.Errorf("state = %v, want BOOTING", st.State)
	}
	if st.Online {
		t.Error("expected online = false")
	}

	// Item list served from the (empty) cache despite the dead backend.
	resp2, err := hc.Get("http://loom/v1/items/")
	if err != nil {
		t.Fatalf("items request error = %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("items status = %d", resp2.StatusCode)
	}
	var out struct {
		Items []api.Entry `json:"items"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Items) != 0 {
		t.Errorf("expected 0 items, got %d", len(out.Items))
	}

	// Seed the cache directly and query again.
	if err := db.UpsertLocal(&store.Entry{Item: store.Item{ID: "i1", Name: "Denim Jacket"}}); err != nil {
		t.Fatal(err)
	}
	resp3, err := hc.Get("http://loom/v1/items/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp3.Body.Close()
	if err := json.NewDecoder(resp3.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Items) != 1 || out.Items[0].Name != "Denim Jacket" {
		t.Errorf("items = %+v", out.Items)
	}
}

func TestStatusReflectsTransitions(t *testing.T) {
	tmpDir, err := os.MkdirTemp("/tmp", "loom-status-*")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	profileDir := filepath.Join(tmpDir, "s")
	socketPath := filepath.Join(tmpDir, "d.sock")
	if err := os.MkdirAll(profileDir, 0700); err != nil {
		t.Fatal(err)
	}

	db, err := store.Open(filepath.Join(profileDir, "loom.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	logger := zap.NewNop()
	b := bus.New()
	machine := status.NewMachine(b)
	client := platform.NewClient("http://127.0.0.1:1", "")
	engine := wardrobe.NewEngine(db, client, offlineNet{}, b, machine, logger)
	res := resolver.New(client, client, logger)

	srv, err := NewServer(
		Params{ProfileName: "s", SocketPath: socketPath},
		logger,
		api.NewStatusHandler(machine, offlineNet{}, engine, db, "s", logger),
		api.NewItemHandler(engine, logger),
		api.NewParticipantHandler(res, logger),
	)
	if err != nil {
		t.Fatal(err)
	}
	go func() { _ = srv.Start() }()
	defer srv.Stop(context.Background())
	time.Sleep(50 * time.Millisecond)

	hc := socketClient(socketPath)

	getState := func() status.State {
		t.Helper()
		resp, err := hc.Get("http://loom/v1/status")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var st api.StatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			t.Fatal(err)
		}
		return st.State
	}

	if got := getState(); got != status.Booting {
		t.Fatalf("initial state = %v, want BOOTING", got)
	}

	_ = machine.Transition(status.Offline)
	if got := getState(); got != status.Offline {
		t.Errorf("state = %v, want OFFLINE", got)
	}

	_ = machine.Transition(status.Online)
	_ = machine.Transition(status.Syncing)
	if got := getState(); got != status.Syncing {
		t.Errorf("state = %v, want SYNCING", got)
	}
}

// TestFxModuleWiring verifies NewServer takes Params rather than bare
// strings fx cannot resolve.
func TestFxModuleWiring(t *testing.T) {
	tmpDir, err := os.MkdirTemp("/tmp", "loom-fx-*")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	socketPath := filepath.Join(tmpDir, "d.sock")

	db, err := store.Open(filepath.Join(tmpDir, "loom.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	logger := zap.NewNop()
	b := bus.New()
	machine := status.NewMachine(b)
	client := platform.NewClient("http://127.0.0.1:1", "")
	engine := wardrobe.NewEngine(db, client, offlineNet{}, b, machine, logger)
	res := resolver.New(client, client, logger)

	srv, err := NewServer(
		Params{ProfileName: "fxtest", SocketPath: socketPath},
		logger,
		api.NewStatusHandler(machine, offlineNet{}, engine, db, "fxtest", logger),
		api.NewItemHandler(engine, logger),
		api.NewParticipantHandler(res, logger),
	)
	if err != nil {
		t.Fatalf("NewServer() with Params failed: %v", err)
	}

	if _, statErr := os.Stat(socketPath); statErr != nil {
		t.Fatalf("socket not created at %s: %v", socketPath, statErr)
	}

	srv.Stop(context.Background())
}
