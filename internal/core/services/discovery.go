package services

import (
	"context"
	"log/slog"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
)

const maxSearchResults = 20

type IDiscoveryService interface {
	// SearchUsers finds users by substring. by selects the matched column,
	// "username" or "fullname"; count caps the result size.
	SearchUsers(ctx context.Context, userID uuid.UUID, contains, by string, count int) ([]domain.SearchResult, error)
}

type DiscoveryService struct {
	log  *slog.Logger
	repo domain.UserRepository
}

func NewDiscoveryService(log *slog.Logger, repo domain.UserRepository) *DiscoveryService {
	return &DiscoveryService{log: log, repo: repo}
}

func (s *DiscoveryService) SearchUsers(ctx context.Context, userID uuid.UUID, contains, by string, count int) ([]domain.SearchResult, error) {
	if by != "username" && by != "fullname" {
		by = "username"
	}
	if contains == "" {
		return []domain.SearchResult{}, nil
	}
	if count <= 0 || count > maxSearchResults {
		count = maxSearchResults
	}

	users, err := s.repo.Search(ctx, contains, by, userID, count)
	if err != nil {
		s.log.ErrorContext(ctx, "discovery - search users - failed", "by", by, "err", err)
		return nil, err
	}
	out := make([]domain.SearchResult, 0, len(users))
	for _, u := range users {
		out = append(out, domain.SearchResult{ID: u.ID, Fullname: u.Fullname, Username: u.Username})
	}
	return out, nil
}
