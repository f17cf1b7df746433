// Package audit implements the hospital audit trail: an append-only ledger of
// who did what to which record, with full before/after snapshots.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hospital-records/internal/audit/domain"
	"hospital-records/internal/audit/metrics"
	auditrepo "hospital-records/internal/audit/repository"
	"hospital-records/internal/requestctx"
)

// ErrNoActor is returned when Record is called without an actor ID. Callers
// are expected to skip the audit write entirely for unauthenticated actions
// rather than hit this.
var ErrNoActor = errors.New("audit: actor id is required")

// Writer creates one AuditEntry per mutating (or sensitive read) operation.
// It performs no authorization checks and does not verify that the referenced
// entity exists; the entry is descriptive. A failed write surfaces to the
// caller, which decides whether to tolerate it; the primary mutation that
// triggered the write is never rolled back from here.
type Writer struct {
	repo    auditrepo.Repository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewWriter returns a Writer persisting to repo. m may be nil to disable
// instrumentation.
func NewWriter(repo auditrepo.Repository, m *metrics.Metrics) *Writer {
	return &Writer{repo: repo, metrics: m, now: func() time.Time { return time.Now().UTC() }}
}

// Record persists one audit entry. ipAddress and userAgent default to the
// values carried in ctx (see requestctx) when empty. Exactly one row is
// written; there are no retries and no batching.
func (w *Writer) Record(ctx context.Context, actorID string, action domain.Action, entityType domain.EntityType, entityID string, changes *domain.Changes, ipAddress, userAgent string) (*domain.AuditEntry, error) {
	if actorID == "" {
		return nil, ErrNoActor
	}
	if ipAddress == "" {
		ipAddress = requestctx.ClientIP(ctx)
	}
	if userAgent == "" {
		userAgent = requestctx.UserAgent(ctx)
	}
	entry := &domain.AuditEntry{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		CreatedAt:  w.now(),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := w.repo.Create(ctx, entry); err != nil {
		w.metrics.ObserveWriteFailure()
		return nil, err
	}
	w.metrics.ObserveWrite(string(action))
	return entry, nil
}

// RecordCreated records a create with the entity's post-creation snapshot.
func (w *Writer) RecordCreated(ctx context.Context, actorID string, entityType domain.EntityType, entityID string, newState domain.Snapshot) (*domain.AuditEntry, error) {
	return w.Record(ctx, actorID, domain.ActionCreated, entityType, entityID, &domain.Changes{New: newState}, "", "")
}

// RecordUpdated records an update. oldState must have been captured before
// the mutation was applied; the writer cannot reconstruct it after the fact.
func (w *Writer) RecordUpdated(ctx context.Context, actorID string, entityType domain.EntityType, entityID string, oldState, newState domain.Snapshot) (*domain.AuditEntry, error) {
	return w.Record(ctx, actorID, domain.ActionUpdated, entityType, entityID, &domain.Changes{Old: oldState, New: newState}, "", "")
}

// RecordDeleted records a delete. oldState must have been captured before the
// delete executed, since afterwards the state is unrecoverable.
func (w *Writer) RecordDeleted(ctx context.Context, actorID string, entityType domain.EntityType, entityID string, oldState domain.Snapshot) (*domain.AuditEntry, error) {
	return w.Record(ctx, actorID, domain.ActionDeleted, entityType, entityID, &domain.Changes{Old: oldState}, "", "")
}

// RecordAccessed records a read of a sensitive record. No snapshots are
// attached.
func (w *Writer) RecordAccessed(ctx context.Context, actorID string, entityType domain.EntityType, entityID string) (*domain.AuditEntry, error) {
	return w.Record(ctx, actorID, domain.ActionAccessed, entityType, entityID, nil, "", "")
}
