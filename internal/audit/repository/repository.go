package repository

import (
	"context"

	"hospital-records/internal/audit/domain"
)

// Repository defines persistence for audit entries. The ledger is
// append-only: there is deliberately no update or delete.
type Repository interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
	GetByID(ctx context.Context, id string) (*domain.AuditEntry, error)
	// List returns entries matching f, newest first, windowed by limit/offset.
	List(ctx context.Context, f domain.Filter, limit, offset int) ([]*domain.AuditEntry, error)
	// Count returns the total number of entries matching f.
	Count(ctx context.Context, f domain.Filter) (int, error)
	// ListByPatient returns, newest first, every entry that either targets the
	// patient directly or embeds the patient inside a captured snapshot.
	ListByPatient(ctx context.Context, patientID string) ([]*domain.AuditEntry, error)
}
