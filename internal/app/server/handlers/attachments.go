package handlers

import (
	"net/http"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"
)

type AttachmentHandler struct {
	attachmentSvc services.IAttachmentService
}

func NewAttachmentHandler(attachmentSvc services.IAttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentSvc: attachmentSvc}
}

// Download redirects to a short-lived presigned URL on the bucket
// instead of streaming the blob through this service.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	attachmentID, ok := pathUUID(w, r, "attachmentID")
	if !ok {
		return
	}
	url, err := h.attachmentSvc.PresignGet(r.Context(), id, attachmentID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
