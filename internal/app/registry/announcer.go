package registry

import (
	"context"
	"log/slog"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/contracts"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Announcer fans one announcement out to the live connections of a set
// of target users. Delivery is fire-and-forget: chat membership, not
// live presence, is the unit of correctness, and a disconnected target
// simply receives nothing.
type Announcer struct {
	registry contracts.Registry
	log      *slog.Logger
}

func NewAnnouncer(log *slog.Logger, registry contracts.Registry) *Announcer {
	return &Announcer{
		registry: registry,
		log:      log,
	}
}

// Announce encodes the event once and sends the same bytes to every
// connected target, skipping exclude (pass uuid.Nil to exclude nobody).
func (a *Announcer) Announce(
	ctx context.Context,
	targets []uuid.UUID,
	event domain.Announcement,
	exclude uuid.UUID,
) {
	data, err := json.Marshal(event)
	if err != nil {
		a.log.ErrorContext(ctx, "announcer - announce - encode failed",
			"kind", event.Kind(), "err", err)
		return
	}
	announcements.WithLabelValues(event.Kind()).Inc()

	for _, target := range targets {
		if target == exclude {
			continue
		}
		if !a.registry.IsUserConnected(target) {
			continue
		}
		a.registry.SendToUser(ctx, target, data)
	}
}
