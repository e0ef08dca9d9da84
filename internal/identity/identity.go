// Package identity adapts the external identity provider contract: anonymous
// sign-in yielding a stable user id, sign-out, and per-request validation.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cleansweep-app/cleansweep-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrRevokedToken = errors.New("session has been signed out")
)

// Session is an anonymous session handed to a client.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues and validates anonymous sessions.
type Service interface {
	SignInAnonymously(ctx context.Context) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

type service struct {
	secret      string
	ttl         time.Duration
	namespace   string
	redisClient *redis.Client
	logger      *logrus.Logger
}

func NewService(cfg *config.Config, redisClient *redis.Client, logger *logrus.Logger) Service {
	return &service{
		secret:      cfg.JWTSecret,
		ttl:         cfg.SessionTTL,
		namespace:   cfg.AppNamespace,
		redisClient: redisClient,
		logger:      logger,
	}
}

// SignInAnonymously mints a fresh stable user id and a session token for it.
// There are no credentials; the id is the user's durable identity.
func (s *service) SignInAnonymously(ctx context.Context) (*Session, error) {
	userID := uuid.New()
	token, claims, err := signToken(s.secret, userID, s.ttl)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign session token")
		return nil, fmt.Errorf("identity: could not create session: %w", err)
	}

	s.logger.WithField("user_id", userID).Info("Anonymous session created")
	return &Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: claims.expiresAt,
	}, nil
}

// SignOut revokes the token until its natural expiry. Validation failures are
// treated as already signed out.
func (s *service) SignOut(ctx context.Context, token string) error {
	claims, err := parseToken(s.secret, token)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.expiresAt)
	if ttl <= 0 || claims.tokenID == "" {
		return nil
	}
	if err := s.redisClient.Set(ctx, s.revocationKey(claims.tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("identity: could not revoke session: %w", err)
	}

	s.logger.WithField("user_id", claims.userID).Info("Session signed out")
	return nil
}

// Authenticate validates a token and returns the user id it carries.
func (s *service) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := parseToken(s.secret, token)
	if err != nil {
		return uuid.Nil, err
	}

	if claims.tokenID != "" {
		revoked, err := s.redisClient.Exists(ctx, s.revocationKey(claims.tokenID)).Result()
		if err != nil {
			return uuid.Nil, fmt.Errorf("identity: could not check revocation: %w", err)
		}
		if revoked > 0 {
			return uuid.Nil, ErrRevokedToken
		}
	}
	return claims.userID, nil
}

func (s *service) revocationKey(tokenID string) string {
	return fmt.Sprintf("%s:revoked:%s", s.namespace, tokenID)
}
