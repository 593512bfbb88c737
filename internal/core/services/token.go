package services

import (
	"fmt"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/config"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenAccess  TokenType = "access_token"
	TokenRefresh TokenType = "refresh_token"
	TokenWS      TokenType = "ws_access_token"
)

// TokenClaims is the decoded, validated content of any of our tokens.
type TokenClaims struct {
	UserID uuid.UUID
	Type   TokenType
	// TicketID is set for ws tickets only; it keys single-use enforcement.
	TicketID uuid.UUID
}

type TokenService struct {
	secretKey  []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	wsTTL      time.Duration
}

func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{
		secretKey:  []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessExpiresIn,
		refreshTTL: cfg.RefreshExpiresIn,
		wsTTL:      cfg.WSExpiresIn,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }
func (s *TokenService) WSTTL() time.Duration      { return s.wsTTL }

func (s *TokenService) generate(userID uuid.UUID, typ TokenType, ttl time.Duration, jti uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": string(typ),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"iss":  s.issuer,
	}
	if jti != uuid.Nil {
		claims["jti"] = jti.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// GeneratePair issues the access+refresh token pair set as cookies
// after register and login.
func (s *TokenService) GeneratePair(userID uuid.UUID) (access, refresh string, err error) {
	if access, err = s.generate(userID, TokenAccess, s.accessTTL, uuid.Nil); err != nil {
		return "", "", err
	}
	if refresh, err = s.generate(userID, TokenRefresh, s.refreshTTL, uuid.Nil); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// GenerateWSTicket issues the short-lived single-use credential presented
// at websocket connection setup. The returned ticket id keys the
// single-use guard.
func (s *TokenService) GenerateWSTicket(userID uuid.UUID) (token string, ticketID uuid.UUID, err error) {
	ticketID = uuid.New()
	token, err = s.generate(userID, TokenWS, s.wsTTL, ticketID)
	if err != nil {
		return "", uuid.Nil, err
	}
	return token, ticketID, nil
}

// Validate parses the token, checks the signature and expiry, and
// requires the expected token type.
func (s *TokenService) Validate(tokenStr string, want TokenType) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	typ, ok := claims["type"].(string)
	if !ok || TokenType(typ) != want {
		return nil, domain.ErrTokenInvalid
	}

	out := &TokenClaims{UserID: userID, Type: TokenType(typ)}
	if jti, ok := claims["jti"].(string); ok {
		if out.TicketID, err = uuid.Parse(jti); err != nil {
			return nil, domain.ErrTokenInvalid
		}
	}
	if want == TokenWS && out.TicketID == uuid.Nil {
		return nil, domain.ErrTokenInvalid
	}
	return out, nil
}
