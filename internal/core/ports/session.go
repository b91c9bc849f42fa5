package ports

import (
	"context"
	"time"

	"github.com/confhub/conference-portal/internal/core/domain"
)

// CredentialStore is the client-held slot for the one session credential.
// Implementations back it with whatever the environment offers (an HTTP
// cookie jar, an in-memory cell in tests). Token reports absence for
// credentials past their stored expiry.
type CredentialStore interface {
	Token() (string, bool)
	Store(token string, expiresAt time.Time)
	Clear()
}

// ProfileFetcher resolves a credential to the caller's profile record. The
// session service treats every failure, network or otherwise, as "session
// invalid".
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token string) (domain.ProfileRecord, error)
}

// Authenticator is the external auth endpoint as seen from the client side:
// it exchanges credentials for a token and revokes tokens on logout.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// SessionService is the client session store surface consumed by UI code.
type SessionService interface {
	Init(ctx context.Context)
	Current() (*domain.Principal, bool)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context) string
}
