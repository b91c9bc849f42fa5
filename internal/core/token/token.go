// Package token mints and verifies the signed session credential. Both sides
// use HS256 with a pre-shared secret; verification is signature + expiry
// only and never touches the network.
package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/confhub/conference-portal/internal/core/domain"
)

// Claims is the decoded payload of a verified credential. UserType is the
// raw claim as issued; it may be empty when the issuer omitted it, which
// callers must treat as an unknown role rather than a verification failure.
type Claims struct {
	Subject   int64
	UserType  string
	ID        string
	ExpiresAt time.Time
}

// Codec signs and verifies credentials with a shared symmetric key.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// DefaultTTL is the credential lifetime when none is configured: seven days,
// matching the client-side cookie expiry.
const DefaultTTL = 7 * 24 * time.Hour

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured credential lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Mint issues a credential for the given account carrying the user_type
// claim and a unique jti for later revocation.
func (c *Codec) Mint(accountID int64, role domain.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":       strconv.FormatInt(accountID, 10),
		"user_type": string(role),
		"jti":       uuid.NewString(),
		"exp":       time.Now().Add(c.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks the signature and expiry of a credential and returns its
// claims. Any failure (bad signature, tampered payload, expired, wrong
// algorithm) yields domain.ErrTokenInvalid.
func (c *Codec) Verify(raw string) (Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return Claims{}, domain.ErrTokenInvalid
	}

	out := Claims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject, _ = strconv.ParseInt(sub, 10, 64)
	}
	if ut, ok := claims["user_type"].(string); ok {
		out.UserType = ut
	}
	if jti, ok := claims["jti"].(string); ok {
		out.ID = jti
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
