package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/config"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"

	"github.com/google/uuid"
)

func newAuthTestServer(t *testing.T) (*services.TokenService, http.Handler, *uuid.UUID) {
	t.Helper()
	tokenSvc := services.NewTokenService(config.TokenConfig{
		Secret:           "test-secret",
		Issuer:           "chat-test",
		AccessExpiresIn:  time.Minute,
		RefreshExpiresIn: time.Hour,
		WSExpiresIn:      15 * time.Second,
	})

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("user id missing from context")
		}
		seen = id
		w.WriteHeader(http.StatusOK)
	})
	return tokenSvc, AuthMiddleware(tokenSvc, false)(next), &seen
}

func TestAuthMiddlewareAccessCookie(t *testing.T) {
	tokenSvc, handler, seen := newAuthTestServer(t)
	userID := uuid.New()
	access, _, err := tokenSvc.GeneratePair(userID)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieAccess, Value: access})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if *seen != userID {
		t.Errorf("context user = %s, want %s", *seen, userID)
	}
}

func TestAuthMiddlewareSilentRefresh(t *testing.T) {
	tokenSvc, handler, seen := newAuthTestServer(t)
	userID := uuid.New()
	_, refresh, err := tokenSvc.GeneratePair(userID)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	// Only the refresh cookie present: the pair must be rotated.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieRefresh, Value: refresh})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if *seen != userID {
		t.Errorf("context user = %s, want %s", *seen, userID)
	}

	var gotAccess, gotRefresh bool
	for _, c := range w.Result().Cookies() {
		switch c.Name {
		case CookieAccess:
			gotAccess = true
			if _, err := tokenSvc.Validate(c.Value, services.TokenAccess); err != nil {
				t.Errorf("rotated access invalid: %v", err)
			}
		case CookieRefresh:
			gotRefresh = true
		}
	}
	if !gotAccess || !gotRefresh {
		t.Errorf("rotated cookies missing: access=%t refresh=%t", gotAccess, gotRefresh)
	}
}

func TestAuthMiddlewareBearerFallback(t *testing.T) {
	tokenSvc, handler, seen := newAuthTestServer(t)
	userID := uuid.New()
	access, _, err := tokenSvc.GeneratePair(userID)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if *seen != userID {
		t.Errorf("context user = %s, want %s", *seen, userID)
	}
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	_, handler, _ := newAuthTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareRejectsRefreshAsBearer(t *testing.T) {
	tokenSvc, handler, _ := newAuthTestServer(t)
	_, refresh, err := tokenSvc.GeneratePair(uuid.New())
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
