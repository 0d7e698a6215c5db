package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/clickgame-go/internal/model"
)

// Errors
var (
	ErrMissingCode    = errors.New("code is required")
	ErrLoginFailed    = errors.New("login failed")
	ErrInvalidSession = errors.New("invalid or expired token")
)

// DefaultSessionTTL is the lifetime of a session token (expiresIn = 7200)
const DefaultSessionTTL = 2 * time.Hour

// Config holds configuration for the auth service
type Config struct {
	SessionTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionTTL: DefaultSessionTTL,
	}
}

// LoginResult is returned to the client after a successful code exchange
type LoginResult struct {
	Token     string
	ExpiresIn int // seconds
	Identity  model.ExternalID
}

// Service exchanges provider auth codes for session tokens and resolves them
type Service struct {
	exchanger Exchanger
	tokens    *TokenStore
	logger    *slog.Logger
	ttl       time.Duration
}

// New creates a new auth Service
func New(exchanger Exchanger, tokens *TokenStore, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultConfig().SessionTTL
	}
	return &Service{
		exchanger: exchanger,
		tokens:    tokens,
		logger:    logger,
		ttl:       cfg.SessionTTL,
	}
}

// Login exchanges code for an identity and issues a session token.
// Provider failures are wrapped in ErrLoginFailed; the provider call is made once.
func (s *Service) Login(ctx context.Context, code string) (*LoginResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrMissingCode
	}

	identity, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("identity exchange failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if identity.ExternalID == "" {
		s.logger.Warn("identity exchange returned no identity")
		return nil, ErrLoginFailed
	}

	token, entry := s.tokens.Issue(identity.ExternalID, identity.EphemeralKey, s.ttl)

	s.logger.Info("login succeeded",
		slog.String("user_id", string(identity.ExternalID)),
		slog.String("token_prefix", tokenPrefix(token)),
		slog.Time("expires_at", entry.ExpiresAt),
	)

	return &LoginResult{
		Token:     token,
		ExpiresIn: int(s.ttl / time.Second),
		Identity:  identity.ExternalID,
	}, nil
}

// Authenticate resolves a token to its session
func (s *Service) Authenticate(token string) (*Entry, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	entry, ok := s.tokens.Resolve(token)
	if !ok {
		return nil, ErrInvalidSession
	}
	return &entry, nil
}

// tokenPrefix returns enough of a token to correlate log lines
func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
