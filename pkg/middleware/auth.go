package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"

	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "user_id"

const (
	CookieAccess  = "access_token"
	CookieRefresh = "refresh_token"
)

// SetAuthCookies installs the access+refresh pair as HTTP-only cookies.
// Also used by the auth handlers after register and login.
func SetAuthCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieAccess,
		Value:    access,
		Path:     "/",
		MaxAge:   int(accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     CookieRefresh,
		Value:    refresh,
		Path:     "/",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{CookieAccess, CookieRefresh} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// UserIDFromContext returns the authenticated user injected by
// AuthMiddleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

// AuthMiddleware authenticates requests from the access token cookie,
// silently rotating an expired pair when the refresh cookie is still
// valid. A Bearer header is accepted as a fallback for non-browser
// clients.
func AuthMiddleware(tokenSvc *services.TokenService, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := authenticate(w, r, tokenSvc, secureCookies)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(w http.ResponseWriter, r *http.Request, tokenSvc *services.TokenService, secure bool) (uuid.UUID, bool) {
	if c, err := r.Cookie(CookieAccess); err == nil {
		if claims, err := tokenSvc.Validate(c.Value, services.TokenAccess); err == nil {
			return claims.UserID, true
		}
	}

	// Access cookie absent or expired: rotate from the refresh cookie.
	if c, err := r.Cookie(CookieRefresh); err == nil {
		if claims, err := tokenSvc.Validate(c.Value, services.TokenRefresh); err == nil {
			access, refresh, err := tokenSvc.GeneratePair(claims.UserID)
			if err == nil {
				SetAuthCookies(w, access, refresh, tokenSvc.AccessTTL(), tokenSvc.RefreshTTL(), secure)
				return claims.UserID, true
			}
		}
	}

	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := tokenSvc.Validate(parts[1], services.TokenAccess); err == nil {
				return claims.UserID, true
			}
		}
	}

	return uuid.Nil, false
}
