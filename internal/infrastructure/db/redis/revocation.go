package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList tracks revoked credential IDs in Redis.
// Key format: revoked:<jti>, expiring with the credential it tombstones.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke tombstones a credential ID for ttl. A non-positive ttl means the
// credential is already expired and nothing needs storing.
func (r *RevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}
	return nil
}

// IsRevoked reports whether this credential ID has been tombstoned.
func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *RevocationList) key(jti string) string {
	return "revoked:" + jti
}
