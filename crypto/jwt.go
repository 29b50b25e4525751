// Package crypto holds the one cryptographic primitive the core needs:
// decoding an optional identity token on connect. Issuing tokens
// (signup/login) is out of scope; this package only verifies and
// reads claims, built on golang-jwt/jwt/v5.
package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid-token")
)

type identityClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies tokens signed by an external auth system and
// extracts the user id carried in them, for stat attribution only.
type JWTVerifier struct {
	secretKey []byte
}

func NewJWTVerifier(secretKey string) *JWTVerifier {
	return &JWTVerifier{secretKey: []byte(secretKey)}
}

// VerifyUserID returns the user id embedded in a valid, unexpired
// token. An empty token is not an error: it just means the connecting
// player has no external account, which is a legitimate guest session.
func (v *JWTVerifier) VerifyUserID(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	if len(v.secretKey) == 0 {
		return "", ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &identityClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secretKey, nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*identityClaims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
