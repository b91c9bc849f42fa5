package ports

import (
	"context"
	"time"
)

// RevocationList tracks credential IDs (jti claims) that have been revoked
// before their natural expiry. Entries only need to outlive the credential,
// so implementations may expire them after ttl.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
