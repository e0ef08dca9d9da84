package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "cleansweep"

type tokenClaims struct {
	userID    uuid.UUID
	tokenID   string
	expiresAt time.Time
}

// signToken creates an HS256 session token for an anonymous user.
func signToken(secret string, userID uuid.UUID, ttl time.Duration) (string, tokenClaims, error) {
	now := time.Now()
	claims := tokenClaims{
		userID:    userID,
		tokenID:   uuid.NewString(),
		expiresAt: now.Add(ttl),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"jti": claims.tokenID,
		"exp": claims.expiresAt.Unix(),
		"iat": now.Unix(),
		"iss": issuer,
	})
	signed, err := t.SignedString([]byte(secret))
	return signed, claims, err
}

// parseToken validates a session token and returns its subject and token id.
func parseToken(secret, tokenStr string) (tokenClaims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return tokenClaims{}, ErrInvalidToken
	}

	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaims{}, ErrInvalidToken
	}
	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return tokenClaims{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return tokenClaims{}, ErrInvalidToken
	}

	claims := tokenClaims{userID: userID}
	if jti, ok := mapClaims["jti"].(string); ok {
		claims.tokenID = jti
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.expiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}
