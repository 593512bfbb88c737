package services

import (
	"testing"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/config"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
)

func testTokenService() *TokenService {
	return NewTokenService(config.TokenConfig{
		Secret:           "test-secret",
		Issuer:           "chat-test",
		AccessExpiresIn:  time.Minute,
		RefreshExpiresIn: time.Hour,
		WSExpiresIn:      15 * time.Second,
	})
}

func TestGeneratePairRoundTrip(t *testing.T) {
	svc := testTokenService()
	userID := uuid.New()

	access, refresh, err := svc.GeneratePair(userID)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	claims, err := svc.Validate(access, TokenAccess)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("access user = %s, want %s", claims.UserID, userID)
	}

	claims, err = svc.Validate(refresh, TokenRefresh)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("refresh user = %s, want %s", claims.UserID, userID)
	}
}

func TestValidateRejectsWrongType(t *testing.T) {
	svc := testTokenService()
	access, refresh, err := svc.GeneratePair(uuid.New())
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	if _, err := svc.Validate(access, TokenRefresh); err != domain.ErrTokenInvalid {
		t.Errorf("access as refresh: err = %v, want ErrTokenInvalid", err)
	}
	if _, err := svc.Validate(refresh, TokenWS); err != domain.ErrTokenInvalid {
		t.Errorf("refresh as ws: err = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	svc := testTokenService()
	access, _, err := svc.GeneratePair(uuid.New())
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	tampered := access[:len(access)-2] + "xx"
	if _, err := svc.Validate(tampered, TokenAccess); err != domain.ErrTokenInvalid {
		t.Errorf("tampered token: err = %v, want ErrTokenInvalid", err)
	}

	other := NewTokenService(config.TokenConfig{
		Secret:          "other-secret",
		AccessExpiresIn: time.Minute,
	})
	if _, err := other.Validate(access, TokenAccess); err != domain.ErrTokenInvalid {
		t.Errorf("foreign secret: err = %v, want ErrTokenInvalid", err)
	}
}

func TestWSTicketCarriesTicketID(t *testing.T) {
	svc := testTokenService()
	userID := uuid.New()

	token, ticketID, err := svc.GenerateWSTicket(userID)
	if err != nil {
		t.Fatalf("GenerateWSTicket: %v", err)
	}
	if ticketID == uuid.Nil {
		t.Fatal("ticket id is nil")
	}

	claims, err := svc.Validate(token, TokenWS)
	if err != nil {
		t.Fatalf("validate ws ticket: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("ws user = %s, want %s", claims.UserID, userID)
	}
	if claims.TicketID != ticketID {
		t.Errorf("ticket id = %s, want %s", claims.TicketID, ticketID)
	}

	// A ws ticket never doubles as an access token.
	if _, err := svc.Validate(token, TokenAccess); err != domain.ErrTokenInvalid {
		t.Errorf("ws as access: err = %v, want ErrTokenInvalid", err)
	}
}
