package handlers

import (
	"net/http"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"
	"github.com/KirilStrezikozin/mini-chat-backend/pkg/middleware"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authSvc       services.IAuthService
	tokenSvc      *services.TokenService
	secureCookies bool
}

func NewAuthHandler(authSvc services.IAuthService, tokenSvc *services.TokenService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, tokenSvc: tokenSvc, secureCookies: secureCookies}
}

func (h *AuthHandler) issueCookies(w http.ResponseWriter, r *http.Request, userID uuid.UUID) bool {
	access, refresh, err := h.tokenSvc.GeneratePair(userID)
	if err != nil {
		requestLogger(r).ErrorContext(r.Context(), "auth handler - generate tokens failed", "err", err)
		respondError(w, r, err)
		return false
	}
	middleware.SetAuthCookies(w, access, refresh, h.tokenSvc.AccessTTL(), h.tokenSvc.RefreshTTL(), h.secureCookies)
	return true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	var req services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.ErrorContext(r.Context(), "auth handler - bad request")
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.authSvc.Register(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !h.issueCookies(w, r, user.ID) {
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":       user.ID,
		"username": user.Username,
	})
	log.InfoContext(r.Context(), "auth handler - register success", "user_id", user.ID)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	var req services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.ErrorContext(r.Context(), "auth handler - bad request")
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !h.issueCookies(w, r, user.ID) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
	})
	log.InfoContext(r.Context(), "auth handler - login success", "user_id", user.ID)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearAuthCookies(w, h.secureCookies)
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Token reports whether the caller holds a valid session. The middleware
// has already done the work; reaching this handler is the answer.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": userID})
}

// WSTicket issues the short-lived single-use credential a client presents
// when opening its websocket connection.
func (h *AuthHandler) WSTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	token, _, err := h.tokenSvc.GenerateWSTicket(userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"ws_access_token": token})
}
