package handlers

import (
	"net/http"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"

	"github.com/goccy/go-json"
)

type MessageHandler struct {
	messageSvc    services.IMessageService
	attachmentSvc services.IAttachmentService
}

func NewMessageHandler(messageSvc services.IMessageService, attachmentSvc services.IAttachmentService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc, attachmentSvc: attachmentSvc}
}

func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	messageID, ok := pathUUID(w, r, "messageID")
	if !ok {
		return
	}
	msg, err := h.messageSvc.Get(r.Context(), id, messageID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

func (h *MessageHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	messageID, ok := pathUUID(w, r, "messageID")
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
	msg, err := h.messageSvc.Edit(r.Context(), id, messageID, req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	messageID, ok := pathUUID(w, r, "messageID")
	if !ok {
		return
	}
	if err := h.messageSvc.Delete(r.Context(), id, messageID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddAttachments records attachment metadata for a message and replies
// with presigned upload URLs. Clients then PUT the blobs straight to the
// bucket.
func (h *MessageHandler) AddAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	messageID, ok := pathUUID(w, r, "messageID")
	if !ok {
		return
	}
	var req []services.AttachmentInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req) == 0 {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	presigned, err := h.attachmentSvc.AddAndPresign(r.Context(), id, messageID, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, presigned)
}
