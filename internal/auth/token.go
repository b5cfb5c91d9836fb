package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no TTL is configured.
const DefaultTokenTTL = 30 * time.Minute

// Internal token failure kinds. Handlers must collapse all three into the
// same 401 response; they exist so the gate can log what actually happened.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims binds a user ID to the registered expiry claim.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// TokenManager issues and verifies HS256-signed bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager returns a TokenManager signing with secret. If ttl <= 0,
// DefaultTokenTTL is used.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for userID expiring after the manager's TTL.
func (m *TokenManager) Issue(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(m.secret)
}

// Verify decodes the token, checks the signature and the expiry, and returns
// the user ID. Failures map to ErrMalformedToken, ErrBadSignature or
// ErrTokenExpired.
func (m *TokenManager) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return 0, ErrMalformedToken
		default:
			return 0, fmt.Errorf("%w: %s", ErrMalformedToken, err)
		}
	}
	if !token.Valid {
		return 0, ErrBadSignature
	}
	return claims.UserID, nil
}
