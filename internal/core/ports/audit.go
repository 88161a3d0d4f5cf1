package ports

import (
	"context"

	"github.com/corpgpt/auth-service/internal/core/domain"
)

// AuditRecorder accepts audit entries for asynchronous persistence.
// Record must not block the calling auth flow.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// AuditRepository defines the interface for audit trail persistence.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, limit int64) ([]domain.AuditEntry, error)
}
