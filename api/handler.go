// Package api exposes the advisory pipeline over HTTP to the chat UI.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/zulls123/greencare/agent/agents/orchestrator"
	contractx "github.com/zulls123/greencare/agent/contract"
	profilex "github.com/zulls123/greencare/agent/profile"
)

// Pipeline is the produced interface consumed by the UI caller.
type Pipeline interface {
	Process(ctx context.Context, userID int64, message, sessionID string) (contractx.PipelineOutcome, error)
}

// ChatRequest is the JSON request body for POST /chat.
type ChatRequest struct {
	UserID    int64  `json:"user_id"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatMessageResponse is one history entry for GET /chat/history.
type ChatMessageResponse struct {
	AgentType string    `json:"agent_type"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	pipeline Pipeline
	store    profilex.Store
}

func NewHandler(pipeline Pipeline, store profilex.Store) *Handler {
	return &Handler{pipeline: pipeline, store: store}
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/chat", h.handleChat)
	r.Get("/chat/history", h.handleHistory)
	r.Get("/healthz", h.handleHealthz)

	return r
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// The caller owns persisting the user's own utterance; a blocked pipeline
	// still leaves this turn recorded.
	if req.UserID > 0 && strings.TrimSpace(req.Message) != "" {
		err := h.store.AppendChatMessage(r.Context(), &profilex.ChatMessage{
			UserID:    req.UserID,
			AgentType: "Orchestrator",
			SessionID: sessionID,
			Role:      "user",
			Content:   strings.TrimSpace(req.Message),
		})
		if err != nil {
			log.Warn().Err(err).Int64("user_id", req.UserID).Msg("failed to persist user message")
		}
	}

	outcome, err := h.pipeline.Process(r.Context(), req.UserID, req.Message, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, orchestratorx.ErrInvalidUser),
			errors.Is(err, orchestratorx.ErrInvalidMessage),
			errors.Is(err, orchestratorx.ErrInvalidSession):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			log.Error().Err(err).Int64("user_id", req.UserID).Msg("pipeline failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	history, err := h.store.GetChatHistory(r.Context(), userID, r.URL.Query().Get("agent_type"), limit)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("history fetch failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	resp := make([]ChatMessageResponse, 0, len(history))
	for _, msg := range history {
		resp = append(resp, ChatMessageResponse{
			AgentType: msg.AgentType,
			SessionID: msg.SessionID,
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
