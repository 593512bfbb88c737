package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/contracts"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type IAuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*domain.User, error)
	// DeleteAccount verifies the password again before removing the user.
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
}

type AuthService struct {
	log       *slog.Logger
	repo      domain.UserRepository
	txManager contracts.TxManager
}

func NewAuthService(log *slog.Logger, repo domain.UserRepository, txManager contracts.TxManager) *AuthService {
	return &AuthService{log: log, repo: repo, txManager: txManager}
}

func validateUsername(username string) error {
	if !strings.HasPrefix(username, "@") ||
		len(username) < domain.MinUsernameLen ||
		len(username) > domain.MaxUsernameLen {
		return domain.ErrInvalidUsername
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if in.Fullname == "" || len(in.Fullname) > domain.MaxFullnameLen {
		return nil, domain.ErrInvalidFullname
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Fullname:     in.Fullname,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if existing, err := s.repo.GetByUsername(txCtx, in.Username); err == nil && existing != nil {
			return domain.ErrUsernameTaken
		}
		if existing, err := s.repo.GetByEmail(txCtx, in.Email); err == nil && existing != nil {
			return domain.ErrEmailTaken
		}
		return s.repo.Create(txCtx, user)
	})
	if err != nil {
		s.log.ErrorContext(ctx, "auth - register - create user failed", "username", in.Username, "err", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "auth - register - user created", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	// Exactly one identifier must be supplied.
	if (in.Username == "") == (in.Email == "") {
		return nil, domain.ErrInvalidCredentials
	}

	var user *domain.User
	var err error
	if in.Username != "" {
		user, err = s.repo.GetByUsername(ctx, in.Username)
	} else {
		user, err = s.repo.GetByEmail(ctx, in.Email)
	}
	if err != nil || user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	s.log.InfoContext(ctx, "auth - login - success", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.ErrInvalidCredentials
	}

	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, userID)
	}); err != nil {
		s.log.ErrorContext(ctx, "auth - delete account - failed", "user_id", userID, "err", err)
		return err
	}
	s.log.InfoContext(ctx, "auth - delete account - success", "user_id", userID)
	return nil
}
