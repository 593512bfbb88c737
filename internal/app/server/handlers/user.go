package handlers

import (
	"net/http"
	"strconv"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"
	"github.com/KirilStrezikozin/mini-chat-backend/pkg/middleware"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type UserHandler struct {
	profileSvc    services.IProfileService
	discoverySvc  services.IDiscoveryService
	authSvc       services.IAuthService
	secureCookies bool
}

func NewUserHandler(
	profileSvc services.IProfileService,
	discoverySvc services.IDiscoveryService,
	authSvc services.IAuthService,
	secureCookies bool,
) *UserHandler {
	return &UserHandler{
		profileSvc:    profileSvc,
		discoverySvc:  discoverySvc,
		authSvc:       authSvc,
		secureCookies: secureCookies,
	}
}

func userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	profile, err := h.profileSvc.GetProfile(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) PatchFullname(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req struct {
		Fullname string `json:"fullname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	profile, err := h.profileSvc.PatchFullname(r.Context(), id, req.Fullname)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) PatchUsername(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	profile, err := h.profileSvc.PatchUsername(r.Context(), id, req.Username)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.authSvc.DeleteAccount(r.Context(), id, req.Password); err != nil {
		respondError(w, r, err)
		return
	}
	middleware.ClearAuthCookies(w, h.secureCookies)
	respondJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	count := 0
	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid count", http.StatusBadRequest)
			return
		}
		count = n
	}
	results, err := h.discoverySvc.SearchUsers(r.Context(), id, q.Get("contains"), q.Get("by"), count)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}
