package registry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/contracts"

	"github.com/google/uuid"
)

// Registry tracks live websocket connections as user_id → endpoint →
// client. One instance per process, injected into both the connection
// handler and the announcer. All operations are safe for concurrent use;
// none of them ever send while holding the lock.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[string]contracts.Client
	log     *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		clients: make(map[uuid.UUID]map[string]contracts.Client),
		log:     log,
	}
}

func (r *Registry) Register(c contracts.Client) {
	userID := c.UserID()
	endpoint := c.Endpoint()

	r.mu.Lock()
	conns := r.clients[userID]
	if conns == nil {
		conns = make(map[string]contracts.Client)
		r.clients[userID] = conns
	}
	prev := conns[endpoint]
	conns[endpoint] = c
	total := len(conns)
	r.mu.Unlock()

	if prev != nil {
		// Endpoints are unique for the lifetime of a transport connection,
		// so a colliding key means the old loop has not cleaned up yet.
		r.log.Warn("registry - register - endpoint already registered, replacing",
			"user_id", userID, "endpoint", endpoint)
		prev.Close()
	} else {
		liveConnections.Inc()
	}
	r.log.Info("registry - register - client added",
		"user_id", userID, "endpoint", endpoint, "user_connections", total)
}

// Deregister removes exactly the (user, endpoint) entry and prunes the
// user key once its last connection is gone. Absent entries are a no-op
// so close races and double closes never fail.
func (r *Registry) Deregister(userID uuid.UUID, endpoint string) {
	r.mu.Lock()
	conns, ok := r.clients[userID]
	if !ok {
		r.mu.Unlock()
		return
	}
	c, ok := conns[endpoint]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(conns, endpoint)
	if len(conns) == 0 {
		delete(r.clients, userID)
	}
	left := len(conns)
	r.mu.Unlock()

	c.Close()
	liveConnections.Dec()
	r.log.Info("registry - deregister - client removed",
		"user_id", userID, "endpoint", endpoint, "user_connections", left)
}

func (r *Registry) IsUserConnected(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[userID]) > 0
}

// ConnectionsOf returns a copy of the user's current clients, safe to
// iterate while registrations churn.
func (r *Registry) ConnectionsOf(userID uuid.UUID) []contracts.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := r.clients[userID]
	if len(conns) == 0 {
		return nil
	}
	out := make([]contracts.Client, 0, len(conns))
	for _, c := range conns {
		out = append(out, c)
	}
	return out
}

// SendToUser delivers data to every connection the user holds at call
// time. Sends happen outside the lock so one slow peer cannot stall
// registrations for unrelated users. A dead handle is logged and
// skipped; its own read loop will deregister it shortly.
func (r *Registry) SendToUser(ctx context.Context, userID uuid.UUID, data []byte) {
	for _, c := range r.ConnectionsOf(userID) {
		if err := c.Send(ctx, data); err != nil {
			sendFailures.Inc()
			r.log.Debug("registry - send to user - send failed",
				"user_id", userID, "endpoint", c.Endpoint(), "err", err)
			continue
		}
		sends.Inc()
	}
}
