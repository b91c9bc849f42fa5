package ports

import (
	"context"

	"github.com/confhub/conference-portal/internal/core/domain"
)

// IdentityService is the server-side identity endpoint: it issues
// credentials, resolves them to profile records, and revokes them.
type IdentityService interface {
	Login(ctx context.Context, email, password string) (string, domain.ProfileRecord, error)
	Profile(ctx context.Context, token string) (domain.ProfileRecord, error)
	Revoke(ctx context.Context, token string) error
}
