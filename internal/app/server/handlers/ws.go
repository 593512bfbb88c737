package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/app/server/ws"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/contracts"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	heartbeatInterval = 30 * time.Second
	presenceTTL       = 2 * heartbeatInterval
)

type WSHandler struct {
	hub      contracts.Registry
	tokenSvc *services.TokenService
	tickets  contracts.TicketStore
	presence contracts.PresenceStore
}

func NewWSHandler(
	hub contracts.Registry,
	tokenSvc *services.TokenService,
	tickets contracts.TicketStore,
	presence contracts.PresenceStore,
) *WSHandler {
	return &WSHandler{
		hub:      hub,
		tokenSvc: tokenSvc,
		tickets:  tickets,
		presence: presence,
	}
}

// ticketFrom accepts the upgrade credential from the query string or,
// for browser clients that cannot set one, from a cookie.
func ticketFrom(r *http.Request) string {
	if t := r.URL.Query().Get("ticket"); t != "" {
		return t
	}
	if c, err := r.Cookie("ws_access_token"); err == nil {
		return c.Value
	}
	return ""
}

func (s *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	span := trace.SpanFromContext(r.Context())

	// Identity is proven before the upgrade, never after.
	claims, err := s.tokenSvc.Validate(ticketFrom(r), services.TokenWS)
	if err != nil {
		log.WarnContext(r.Context(), "ws handler - invalid ticket", "err", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	fresh, err := s.tickets.Consume(r.Context(), claims.TicketID, s.tokenSvc.WSTTL())
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - ticket check failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !fresh {
		log.WarnContext(r.Context(), "ws handler - ticket replayed", "user_id", claims.UserID)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID := claims.UserID
	span.SetAttributes(attribute.String("user.id", userID.String()))

	// The session outlives the upgrade request.
	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)
	defer cancel()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten later
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade failed", "err", err)
		return
	}
	endpoint := conn.RemoteAddr().String()
	conn.SetCloseHandler(func(code int, text string) error {
		log.Info("ws handler - ws closed", "user_id", userID, "endpoint", endpoint)
		cancel()
		return nil
	})

	socket := ws.NewWebSocket(ctx, conn)
	client := ws.NewClient(ctx, socket, userID, endpoint)
	s.hub.Register(client)
	defer s.teardown(sessionCtx, log, userID, endpoint)

	if err := s.presence.MarkOnline(ctx, userID, presenceTTL); err != nil {
		log.WarnContext(ctx, "ws handler - presence mark online failed", "err", err)
	}
	go s.heartbeat(ctx, log, userID)

	log.InfoContext(ctx, "ws handler - connection established", "user_id", userID, "endpoint", endpoint)

	// Inbound frames are opaque: decoded, logged, dropped. All state
	// changes travel over the HTTP API; the socket is a push channel.
	socket.ReadLoop(log, func(v any) {
		log.DebugContext(ctx, "ws handler - inbound frame ignored", "user_id", userID)
	})
}

// heartbeat refreshes the presence key until the connection context
// ends. A missed refresh lets the TTL expire on its own.
func (s *WSHandler) heartbeat(ctx context.Context, log *slog.Logger, userID uuid.UUID) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.presence.MarkOnline(ctx, userID, presenceTTL); err != nil {
				log.WarnContext(ctx, "ws handler - presence refresh failed", "err", err)
			}
		}
	}
}

// teardown drops the connection from the registry. The presence key is
// only cleared when this was the user's last live endpoint.
func (s *WSHandler) teardown(ctx context.Context, log *slog.Logger, userID uuid.UUID, endpoint string) {
	s.hub.Deregister(userID, endpoint)
	if !s.hub.IsUserConnected(userID) {
		if err := s.presence.MarkOffline(ctx, userID); err != nil {
			log.WarnContext(ctx, "ws handler - presence mark offline failed", "err", err)
		}
	}
	log.InfoContext(ctx, "ws handler - connection closed", "user_id", userID, "endpoint", endpoint)
}
