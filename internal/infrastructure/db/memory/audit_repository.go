package memory

import (
	"context"
	"sync"

	"github.com/corpgpt/auth-service/internal/core/domain"
)

// AuditRepository keeps the audit trail in memory, newest first on List.
type AuditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *AuditRepository) List(_ context.Context, limit int64) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
