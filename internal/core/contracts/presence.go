package contracts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PresenceStore mirrors the in-process registry's presence into Redis
// with TTL-based keys. The registry stays the source of truth for
// delivery; the mirror only feeds read surfaces like the chat list's
// peer-online flag.
type PresenceStore interface {
	// MarkOnline refreshes the user's presence key with the given TTL.
	MarkOnline(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	// MarkOffline drops the presence key early; an expired TTL has the
	// same effect.
	MarkOffline(ctx context.Context, userID uuid.UUID) error
	IsOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}

// TicketStore enforces single use of the short-lived connection tickets
// presented at websocket setup.
type TicketStore interface {
	// Consume records the ticket id and reports whether this was its
	// first use within the ttl window.
	Consume(ctx context.Context, ticketID uuid.UUID, ttl time.Duration) (bool, error)
}
