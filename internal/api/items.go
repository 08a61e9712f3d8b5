package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/loom-social/loom/internal/wardrobe"
	"go.uber.org/zap"
)

const defaultSearchLimit = 50

// ItemHandler exposes wardrobe item operations over the daemon socket.
type ItemHandler struct {
	engine *wardrobe.Engine
	logger *zap.Logger
}

// NewItemHandler creates an item handler.
func NewItemHandler(engine *wardrobe.Engine, logger *zap.Logger) *ItemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemHandler{engine: engine, logger: logger}
}

// List handles GET /v1/items. With ?search= it queries the local full-text
// index instead of listing.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	if query := r.URL.Query().Get("search"); query != "" {
		limit := defaultSearchLimit
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		results, err := h.engine.Search(query, limit)
		if err != nil {
			h.logger.Error("item search failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "search failed")
			return
		}
		entries := make([]Entry, 0, len(results))
		for i := range results {
			entries = append(entries, Entry{
				Item:         itemFromStore(&results[i].Entry.Item),
				NeedsSync:    results[i].Entry.NeedsSync,
				LastModified: results[i].Entry.LastModified,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": entries})
		return
	}

	entries, err := h.engine.Load(r.Context())
	if err != nil {
		h.logger.Error("item list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load items")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entriesFromStore(entries)})
}

// Create handles POST /v1/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body Item
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item := body.toStore()
	if item.Name == "" {
		item.Name = wardrobe.ExtractItemName(&item)
	}
	item.Condition = wardrobe.CanonicalCondition(item.Condition)

	entries, err := h.engine.Create(r.Context(), &item)
	if err != nil {
		h.logger.Error("item create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"items": entriesFromStore(entries)})
}

// Update handles PUT /v1/items/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body Item
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	body.ID = id

	item := body.toStore()
	entries, err := h.engine.Update(r.Context(), &item)
	if err != nil {
		h.logger.Error("item update failed", zap.Error(err), zap.String("item_id", id))
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entriesFromStore(entries)})
}

// Delete handles DELETE /v1/items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entries, err := h.engine.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("item delete failed", zap.Error(err), zap.String("item_id", id))
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entriesFromStore(entries)})
}

// Sync handles POST /v1/sync, running one reconciliation pass.
func (h *ItemHandler) Sync(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.SyncOfflineItems(r.Context())
	if err != nil {
		h.logger.Error("sync pass failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "sync failed: "+err.Error())
		return
	}

	resp := SyncResponse{Synced: report.Synced, Failed: report.Failed}
	for _, se := range report.Errors {
		resp.Errors = append(resp.Errors, SyncItemError{ItemID: se.ItemID, Message: se.Message})
	}
	writeJSON(w, http.StatusOK, resp)
}
