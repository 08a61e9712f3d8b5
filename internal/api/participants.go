package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loom-social/loom/internal/resolver"
	"go.uber.org/zap"
)

// ParticipantHandler exposes participant search and conversation creation.
type ParticipantHandler struct {
	resolver *resolver.Resolver
	logger   *zap.Logger
}

// NewParticipantHandler creates a participant handler.
func NewParticipantHandler(res *resolver.Resolver, logger *zap.Logger) *ParticipantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipantHandler{resolver: res, logger: logger}
}

// Search handles GET /v1/participants?query=&filter=. The search never
// fails: degraded sources simply contribute nothing.
func (h *ParticipantHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	filter := resolver.Filter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = resolver.FilterAll
	}

	results := h.resolver.Search(r.Context(), query, filter)
	writeJSON(w, http.StatusOK, map[string]any{"participants": results})
}

// CreateConversation handles POST /v1/conversations.
func (h *ParticipantHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var body CreateConversationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.resolver.Create(r.Context(), body.Participants, body.Name)
	if err != nil {
		switch {
		case errors.Is(err, resolver.ErrNoParticipants),
			errors.Is(err, resolver.ErrInvalidParticipants):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("conversation create failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}
