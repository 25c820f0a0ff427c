package utils // package utils provides helpers for the signed session cookie

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrInvalidToken is returned for any cookie that fails signature, expiry
// or claim checks.  Callers treat it as "no session".
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken is the signed cookie value and its expiry.  The token only
// carries the opaque session id; identity and role stay server-side.
type SessionToken struct {
	Token string
	Exp   time.Time
}

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewSessionToken builds and signs an HS256 JWT carrying sid.  The expiry
// matches the server-side session TTL so a stale cookie is rejected before
// the store is consulted.
func NewSessionToken(secret, sid string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := sessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns the session id it carries.
// Tokens signed with anything other than HMAC are refused.
func ParseSessionToken(secret, raw string) (string, error) {
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid || claims.SID == "" {
		return "", ErrInvalidToken
	}
	return claims.SID, nil
}
