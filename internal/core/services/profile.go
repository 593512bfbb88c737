package services

import (
	"context"
	"log/slog"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/contracts"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
)

type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	PatchFullname(ctx context.Context, userID uuid.UUID, fullname string) (*domain.UserProfile, error)
	PatchUsername(ctx context.Context, userID uuid.UUID, username string) (*domain.UserProfile, error)
}

type ProfileService struct {
	log       *slog.Logger
	repo      domain.UserRepository
	txManager contracts.TxManager
}

func NewProfileService(log *slog.Logger, repo domain.UserRepository, txManager contracts.TxManager) *ProfileService {
	return &ProfileService{log: log, repo: repo, txManager: txManager}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := domain.NewUserProfile(*user)
	return &profile, nil
}

func (s *ProfileService) PatchFullname(ctx context.Context, userID uuid.UUID, fullname string) (*domain.UserProfile, error) {
	if fullname == "" || len(fullname) > domain.MaxFullnameLen {
		return nil, domain.ErrInvalidFullname
	}
	if err := s.repo.UpdateFullname(ctx, userID, fullname); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "profile - patch fullname - success", "user_id", userID)
	return s.GetProfile(ctx, userID)
}

func (s *ProfileService) PatchUsername(ctx context.Context, userID uuid.UUID, username string) (*domain.UserProfile, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if existing, err := s.repo.GetByUsername(txCtx, username); err == nil && existing != nil && existing.ID != userID {
			return domain.ErrUsernameTaken
		}
		return s.repo.UpdateUsername(txCtx, userID, username)
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "profile - patch username - success", "user_id", userID)
	return s.GetProfile(ctx, userID)
}
