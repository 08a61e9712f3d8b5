package api

import (
	"net/http"

	"github.com/loom-social/loom/internal/status"
	"github.com/loom-social/loom/internal/store"
	"github.com/loom-social/loom/internal/wardrobe"
	"go.uber.org/zap"
)

// StatusHandler answers daemon status queries.
type StatusHandler struct {
	machine *status.Machine
	net     wardrobe.Connectivity
	engine  *wardrobe.Engine
	db      *store.DB
	profile string
	logger  *zap.Logger
}

// NewStatusHandler creates a status handler.
func NewStatusHandler(machine *status.Machine, net wardrobe.Connectivity, engine *wardrobe.Engine, db *store.DB, profile string, logger *zap.Logger) *StatusHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusHandler{
		machine: machine,
		net:     net,
		engine:  engine,
		db:      db,
		profile: profile,
		logger:  logger,
	}
}

// Status handles GET /v1/status.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	pending, err := h.engine.Pending()
	if err != nil {
		h.logger.Error("pending count failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read cache")
		return
	}

	lastSync, err := h.db.GetCheckpoint(wardrobe.CheckpointLastSync)
	if err != nil {
		h.logger.Warn("checkpoint read failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		State:      h.machine.Current(),
		Online:     h.net.Online(),
		Pending:    pending,
		LastSyncAt: lastSync,
		Profile:    h.profile,
	})
}

// Health handles GET /health.
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
