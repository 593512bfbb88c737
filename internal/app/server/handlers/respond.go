package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/platform/logger"

	"github.com/goccy/go-json"
)

func requestLogger(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context())
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain sentinels to HTTP statuses. Anything
// unrecognized is a 500 with the detail kept out of the response body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrChatNotFound),
		errors.Is(err, domain.ErrMessageNotFound),
		errors.Is(err, domain.ErrAttachmentNotFound):
		status, message = http.StatusNotFound, err.Error()

	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken):
		status, message = http.StatusConflict, err.Error()

	case errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidFullname),
		errors.Is(err, domain.ErrChatWithSelf),
		errors.Is(err, domain.ErrMessageTooLong):
		status, message = http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, domain.ErrInvalidHistory):
		status, message = http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTicketUsed):
		status, message = http.StatusUnauthorized, err.Error()

	case errors.Is(err, domain.ErrNotChatMember):
		status, message = http.StatusForbidden, err.Error()

	default:
		requestLogger(r).ErrorContext(r.Context(), "handler - unexpected error", "err", err)
	}

	respondJSON(w, status, map[string]string{"error": message})
}
