package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type ChatHandler struct {
	chatSvc       services.IChatService
	attachmentSvc services.IAttachmentService
}

func NewChatHandler(chatSvc services.IChatService, attachmentSvc services.IAttachmentService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc, attachmentSvc: attachmentSvc}
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "invalid "+param, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	infos, err := h.chatSvc.Infos(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, infos)
}

func (h *ChatHandler) GetOrCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req struct {
		PeerID uuid.UUID `json:"peer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	chat, created, err := h.chatSvc.GetOrCreate(r.Context(), id, req.PeerID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, map[string]any{"id": chat.ID})
}

func (h *ChatHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathUUID(w, r, "chatID")
	if !ok {
		return
	}
	if err := h.chatSvc.Leave(r.Context(), id, chatID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathUUID(w, r, "chatID")
	if !ok {
		return
	}

	q := r.URL.Query()
	var since, until *time.Time
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		since = &t
	}
	if v := q.Get("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid until", http.StatusBadRequest)
			return
		}
		until = &t
	}
	count := 0
	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid count", http.StatusBadRequest)
			return
		}
		count = n
	}

	messages, err := h.chatSvc.History(r.Context(), id, chatID, since, until, count)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathUUID(w, r, "chatID")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	msg, err := h.chatSvc.SendMessage(r.Context(), id, chatID, req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathUUID(w, r, "chatID")
	if !ok {
		return
	}
	attachments, err := h.attachmentSvc.ListForChat(r.Context(), id, chatID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attachments)
}
