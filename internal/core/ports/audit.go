package ports

import (
	"context"

	"github.com/confhub/conference-portal/internal/core/domain"
)

// AuditRepository persists authentication audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuthEvent) error
}

// AuditRecorder accepts audit events for asynchronous persistence. Record
// must never block the caller; implementations drop events when saturated.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}
