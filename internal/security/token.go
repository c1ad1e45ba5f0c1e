package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the validity window of a session token.
const SessionTTL = 7 * 24 * time.Hour

// SessionClaims binds a token to exactly one user id.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// SignSession mints a signed session token embedding userID, expiring ttl
// from now.
func SignSession(userID string, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// VerifySession returns the user id bound to tokenStr, or "" on any failure:
// tampering, expiry, malformed input. Callers always treat "" as a normal
// unauthenticated outcome, never a fault.
func VerifySession(tokenStr string, secret string) string {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.UserID == "" {
		return ""
	}
	return claims.UserID
}
