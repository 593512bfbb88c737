package contracts

import (
	"context"

	"github.com/google/uuid"
)

// Registry is the live-connection bookkeeping the rest of the system
// observes. A user may hold several concurrent connections (tabs,
// devices), distinguished by their remote endpoint.
type Registry interface {
	// Register installs the client under its (user, endpoint) key.
	Register(c Client)
	// Deregister removes exactly that (user, endpoint) entry. Idempotent:
	// a double close or a close race is a no-op, never an error.
	Deregister(userID uuid.UUID, endpoint string)
	// IsUserConnected reports whether the user has at least one live
	// connection.
	IsUserConnected(userID uuid.UUID) bool
	// ConnectionsOf returns a snapshot of the user's live clients. The
	// returned slice is the caller's to iterate; concurrent register and
	// deregister calls never mutate it.
	ConnectionsOf(userID uuid.UUID) []Client
	// SendToUser delivers data to every connection the user holds at call
	// time. A failed send on one handle never aborts delivery to the rest.
	SendToUser(ctx context.Context, userID uuid.UUID, data []byte)
}

// Client is the minimal send/close capability of one live connection.
// The registry owns the handle; closing it is the registry's job during
// cleanup and nobody else's.
type Client interface {
	UserID() uuid.UUID
	// Endpoint is the connection-unique key (remote host:port) that
	// separates simultaneous connections of the same user.
	Endpoint() string
	Send(ctx context.Context, data []byte) error
	Close()
}
