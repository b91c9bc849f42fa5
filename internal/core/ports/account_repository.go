package ports

import (
	"context"

	"github.com/confhub/conference-portal/internal/core/domain"
)

// AccountRepository defines the interface for account and profile persistence.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}
