package contracts

import (
	"context"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
)

// Announcer is the only write entry point into live delivery. Request
// handlers call it after committing the domain mutation, with the full
// chat membership as targets; whether any target actually received the
// event is deliberately not reported back.
type Announcer interface {
	// Announce fans the event out to every connected target, skipping
	// exclude (uuid.Nil excludes nobody). Non-connected targets are the
	// expected common case, not an error.
	Announce(ctx context.Context, targets []uuid.UUID, event domain.Announcement, exclude uuid.UUID)
}
