package wardrobe

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/loom-social/loom/internal/bus"
	"github.com/loom-social/loom/internal/platform"
	"github.com/loom-social/loom/internal/status"
	"github.com/loom-social/loom/internal/store"
	"go.uber.org/zap"
)

// Backend is the wardrobe slice of the platform API.
type Backend interface {
	ListItems(ctx context.Context) ([]platform.ItemPayload, error)
	CreateItem(ctx context.Context, item *platform.ItemPayload) (*platform.ItemPayload, error)
	UpdateItem(ctx context.Context, item *platform.ItemPayload) (*platform.ItemPayload, error)
	DeleteItem(ctx context.Context, id string) error
	BulkSync(ctx context.Context, items []platform.ItemPayload) (*platform.SyncReport, error)
}

// Connectivity reports whether the backend is currently reachable.
type Connectivity interface {
	Online() bool
}

// CheckpointLastSync is the sync_state key for the last reconciliation time.
const CheckpointLastSync = "last_sync_at"

// Engine presents a single consistent view of wardrobe items regardless of
// connectivity, deferring writes that cannot reach the server. All
// dependencies are injected; nothing here touches ambient state.
type Engine struct {
	db      *store.DB
	backend Backend
	net     Connectivity
	bus     *bus.Bus
	machine *status.Machine
	logger  *zap.Logger

	syncMu sync.Mutex
	cancel context.CancelFunc
}

// NewEngine creates a wardrobe engine.
func NewEngine(db *store.DB, backend Backend, net Connectivity, b *bus.Bus, machine *status.Machine, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		db:      db,
		backend: backend,
		net:     net,
		bus:     b,
		machine: machine,
		logger:  logger,
	}
}

// Start subscribes to connectivity events. The offline -> online transition
// triggers an automatic reconciliation pass.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	ch, unsub := e.bus.Subscribe("net.", 64)

	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				e.handleNetEvent(ctx, evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the engine.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) handleNetEvent(ctx context.Context, evt bus.Event) {
	switch evt.Kind {
	case bus.KindNetOnline:
		if e.machine != nil {
			_ = e.machine.Transition(status.Online)
		}
		if _, err := e.SyncOfflineItems(ctx); err != nil {
			e.logger.Warn("automatic sync after reconnect failed", zap.Error(err))
		}
	case bus.KindNetOffline:
		if e.machine != nil {
			_ = e.machine.Transition(status.Offline)
		}
	}
}

// Load returns the item list. Online it fetches the authoritative server
// list and refreshes the cache mirror; any network failure falls back to the
// cache silently. The returned error only ever reflects a cache failure.
func (e *Engine) Load(ctx context.Context) ([]store.Entry, error) {
	if e.net.Online() {
		payloads, err := e.backend.ListItems(ctx)
		if err == nil {
			items := make([]store.Item, 0, len(payloads))
			for i := range payloads {
				items = append(items, platform.ToItem(&payloads[i]))
			}
			if err := e.db.RefreshFromServer(items); err != nil {
				return nil, fmt.Errorf("refresh cache: %w", err)
			}
			return e.db.ListEntries()
		}
		e.logger.Warn("item list fetch failed, serving cache", zap.Error(err))
	}
	return e.db.ListEntries()
}

// Create adds an item. Offline (or when the call fails) the item is written
// to the cache flagged for sync. Concludes by re-running Load.
func (e *Engine) Create(ctx context.Context, item *store.Item) ([]store.Entry, error) {
	now := time.Now().UnixMilli()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if item.Condition == "" {
		item.Condition = FallbackCondition
	}

	if e.net.Online() {
		payload := platform.FromItem(item)
		created, err := e.backend.CreateItem(ctx, &payload)
		if err == nil {
			serverItem := platform.ToItem(created)
			if err := e.db.UpsertServer(&serverItem); err != nil {
				return nil, fmt.Errorf("cache server copy: %w", err)
			}
			e.publishItem(bus.KindItemUpserted, serverItem.ID)
			return e.Load(ctx)
		}
		e.logger.Warn("item create failed, queueing offline", zap.Error(err))
	}

	if err := e.db.UpsertLocal(&store.Entry{Item: *item, LastModified: now}); err != nil {
		return nil, fmt.Errorf("cache local create: %w", err)
	}
	e.publishItem(bus.KindItemUpserted, item.ID)
	return e.Load(ctx)
}

// Update modifies an item, with the same online-first/offline-fallback
// pattern as Create.
func (e *Engine) Update(ctx context.Context, item *store.Item) ([]store.Entry, error) {
	now := time.Now().UnixMilli()
	item.UpdatedAt = now

	if e.net.Online() {
		payload := platform.FromItem(item)
		updated, err := e.backend.UpdateItem(ctx, &payload)
		if err == nil {
			serverItem := platform.ToItem(updated)
			if err := e.db.UpsertServer(&serverItem); err != nil {
				return nil, fmt.Errorf("cache server copy: %w", err)
			}
			e.publishItem(bus.KindItemUpserted, serverItem.ID)
			return e.Load(ctx)
		}
		e.logger.Warn("item update failed, queueing offline", zap.Error(err))
	}

	if err := e.db.UpsertLocal(&store.Entry{Item: *item, LastModified: now}); err != nil {
		return nil, fmt.Errorf("cache local update: %w", err)
	}
	e.publishItem(bus.KindItemUpserted, item.ID)
	return e.Load(ctx)
}

// Delete removes an item. Offline the row is tombstoned and deleted for real
// only once the server confirms during a reconciliation pass.
func (e *Engine) Delete(ctx context.Context, id string) ([]store.Entry, error) {
	if e.net.Online() {
		err := e.backend.DeleteItem(ctx, id)
		if err == nil {
			if err := e.db.Remove(id); err != nil {
				return nil, fmt.Errorf("remove cached row: %w", err)
			}
			e.publishItem(bus.KindItemDeleted, id)
			return e.Load(ctx)
		}
		e.logger.Warn("item delete failed, tombstoning", zap.Error(err))
	}

	if err := e.db.Tombstone(id); err != nil {
		return nil, fmt.Errorf("tombstone: %w", err)
	}
	e.publishItem(bus.KindItemDeleted, id)
	return e.Load(ctx)
}

// Search queries the local cache full-text index. Works offline.
func (e *Engine) Search(query string, limit int) ([]store.SearchResult, error) {
	return e.db.SearchItems(query, limit)
}

// Pending returns the number of entries waiting for a reconciliation pass.
func (e *Engine) Pending() (int, error) {
	entries, err := e.db.PendingEntries()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// SyncOfflineItems runs one reconciliation pass: every flagged entry is
// submitted in a single bulk call, and flags are cleared per item unless the
// server named the item in its error list. A failure of the pass itself
// leaves all flags untouched for the next attempt. The cache is reloaded at
// the end regardless of partial failure.
func (e *Engine) SyncOfflineItems(ctx context.Context) (*platform.SyncReport, error) {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	pending, err := e.db.PendingEntries()
	if err != nil {
		return nil, fmt.Errorf("collect pending: %w", err)
	}
	if len(pending) == 0 {
		e.publishSync(bus.KindSyncCompleted, &platform.SyncReport{})
		return &platform.SyncReport{}, nil
	}

	if e.machine != nil {
		_ = e.machine.Transition(status.Syncing)
	}
	e.bus.Publish(bus.Event{Kind: bus.KindSyncStarted, Timestamp: time.Now(), Payload: len(pending)})

	payloads := make([]platform.ItemPayload, 0, len(pending))
	for i := range pending {
		payloads = append(payloads, platform.FromEntry(&pending[i]))
	}

	report, err := e.backend.BulkSync(ctx, payloads)
	if err != nil {
		// Transient: entries stay flagged for the next pass.
		e.logger.Error("reconciliation pass failed", zap.Error(err), zap.Int("pending", len(pending)))
		if e.machine != nil {
			_ = e.machine.Transition(status.Degraded)
		}
		e.bus.Publish(bus.Event{Kind: bus.KindSyncFailed, Timestamp: time.Now(), Payload: err.Error()})
		return nil, err
	}

	errored := make(map[string]struct{}, len(report.Errors))
	for _, se := range report.Errors {
		errored[se.ItemID] = struct{}{}
	}
	for i := range pending {
		if _, bad := errored[pending[i].ID]; bad {
			continue
		}
		if err := e.db.MarkSynced(pending[i].ID); err != nil {
			e.logger.Error("failed to clear sync flag", zap.Error(err), zap.String("item_id", pending[i].ID))
		}
	}

	if err := e.db.SetCheckpoint(CheckpointLastSync, strconv.FormatInt(time.Now().UnixMilli(), 10)); err != nil {
		e.logger.Warn("failed to record sync checkpoint", zap.Error(err))
	}

	if e.machine != nil {
		if len(report.Errors) > 0 {
			_ = e.machine.Transition(status.Degraded)
		} else {
			_ = e.machine.Transition(status.Online)
		}
	}

	e.logger.Info("reconciliation pass finished",
		zap.Int("synced", report.Synced),
		zap.Int("failed", report.Failed))
	e.publishSync(bus.KindSyncCompleted, report)

	// Reload so the mirror reflects the authoritative post-sync state.
	if _, err := e.Load(ctx); err != nil {
		e.logger.Warn("post-sync reload failed", zap.Error(err))
	}
	return report, nil
}

func (e *Engine) publishItem(kind, id string) {
	e.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: map[string]string{"item_id": id}})
}

func (e *Engine) publishSync(kind string, report *platform.SyncReport) {
	e.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: report})
}
