// Package api implements the HTTP handlers the web UI talks to.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"aichorus/internal/config"
	"aichorus/internal/models"
	"aichorus/internal/relay"
	"aichorus/internal/store"
	"aichorus/internal/util"
)

type Handler struct {
	store  *store.Store
	relay  *relay.Relay
	cfg    *config.Config
	logger *zap.Logger
}

func NewHandler(st *store.Store, rl *relay.Relay, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		store:  st,
		relay:  rl,
		cfg:    cfg,
		logger: logger,
	}
}

// Register wires all API routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/chat", h.HandleChat)
	mux.HandleFunc("/api/message", h.HandleSendMessage)
	mux.HandleFunc("/api/messages", h.HandleMessages)
	mux.HandleFunc("/api/messages/clear", h.HandleClearMessages)
	mux.HandleFunc("/api/conversations", h.HandleConversations)
	mux.HandleFunc("/api/conversations/get", h.HandleGetConversation)
	mux.HandleFunc("/api/conversations/update", h.HandleUpdateConversation)
	mux.HandleFunc("/api/conversations/delete", h.HandleDeleteConversation)
	mux.HandleFunc("/api/models", h.HandleModels)
	mux.HandleFunc("/api/auth", h.HandleAuth)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store errors onto the not-found / storage-unavailable
// distinction the UI relies on.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	h.logger.Error("storage operation failed", zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, "Storage unavailable")
}

// writeRelayError maps relay errors onto HTTP statuses: unsupported provider
// is the caller's fault, a missing credential is ours, and vendor statuses
// pass through verbatim.
func (h *Handler) writeRelayError(w http.ResponseWriter, err error) {
	var validationErr *relay.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	var configErr *relay.ConfigError
	if errors.As(err, &configErr) {
		h.logger.Error("provider credential missing", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, configErr.Error())
		return
	}

	var vendorErr *relay.VendorError
	if errors.As(err, &vendorErr) {
		h.logger.Error("provider request failed",
			zap.String("provider", vendorErr.Provider),
			zap.Int("status", vendorErr.StatusCode),
			zap.String("message", vendorErr.Message))
		h.writeError(w, vendorErr.StatusCode, vendorErr.Error())
		return
	}

	h.logger.Error("relay request failed", zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, err.Error())
}

type ChatRequest struct {
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Messages []relay.Message `json:"messages"`
}

// HandleChat is the provider dispatch relay endpoint: one blocking vendor
// round-trip per call, normalized to {content, usage}.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.relay.Send(r.Context(), req.Provider, req.Model, req.Messages)
	if err != nil {
		h.writeRelayError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type SendMessageResponse struct {
	Message *models.Message `json:"message"`
	Usage   json.RawMessage `json:"usage,omitempty"`
}

// HandleSendMessage runs the full send flow: persist the user message,
// best-effort title from the first message, relay the ordered history, then
// persist and return the assistant reply. A relay failure after the user
// append leaves the user message in place; the caller re-sends manually.
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	convID := r.URL.Query().Get("conversation_id")
	if convID == "" {
		h.writeError(w, http.StatusBadRequest, "Missing conversation ID")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conv, err := h.store.GetConversation(convID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	userMsg := &models.Message{
		ConversationID: convID,
		Role:           models.RoleUser,
		Content:        req.Content,
	}
	if err := h.store.AddMessage(userMsg); err != nil {
		if errors.Is(err, store.ErrEmptyContent) {
			h.writeError(w, http.StatusBadRequest, "Message cannot be empty")
			return
		}
		h.writeStoreError(w, err)
		return
	}

	// First message names the conversation. Best effort: a failed title
	// update is logged and the send continues.
	if conv.MessageCount == 0 {
		title := util.Truncate(userMsg.Content, util.TitleLength)
		if err := h.store.UpdateConversationTitle(convID, title); err != nil {
			h.logger.Warn("failed to update conversation title",
				zap.String("conversation_id", convID), zap.Error(err))
		}
	}

	messages, err := h.store.GetMessages(convID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	history := make([]relay.Message, 0, len(messages))
	for _, msg := range messages {
		history = append(history, relay.Message{Role: msg.Role, Content: msg.Content})
	}

	resp, err := h.relay.Send(r.Context(), conv.Provider, conv.Model, history)
	if err != nil {
		h.writeRelayError(w, err)
		return
	}

	assistantMsg := &models.Message{
		ConversationID: convID,
		Role:           models.RoleAssistant,
		Content:        resp.Content,
		Provider:       conv.Provider,
	}
	if err := h.store.AddMessage(assistantMsg); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, SendMessageResponse{
		Message: assistantMsg,
		Usage:   resp.Usage,
	})
}

type CreateConversationRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// HandleConversations lists conversations on GET and creates one on POST.
func (h *Handler) HandleConversations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		conversations, err := h.store.ListConversations()
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, conversations)

	case http.MethodPost:
		var req CreateConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if !models.ValidProvider(req.Provider) {
			h.writeError(w, http.StatusBadRequest, "Unsupported provider: "+req.Provider)
			return
		}

		conv, err := h.store.CreateConversation(req.Provider, req.Model)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, conv)

	default:
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	conv, err := h.store.GetConversation(r.URL.Query().Get("conversation_id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, conv)
}

type UpdateConversationRequest struct {
	Title string `json:"title"`
}

func (h *Handler) HandleUpdateConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req UpdateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.UpdateConversationTitle(r.URL.Query().Get("conversation_id"), req.Title); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := h.store.DeleteConversation(r.URL.Query().Get("conversation_id")); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	messages, err := h.store.GetMessages(r.URL.Query().Get("conversation_id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) HandleClearMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := h.store.ClearConversationMessages(r.URL.Query().Get("conversation_id")); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleModels serves the static provider/model catalog.
func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h.writeJSON(w, http.StatusOK, models.Providers)
}
