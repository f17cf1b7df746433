// Package service implements patient record operations. Every mutation
// follows the audit capture convention: snapshot before changing or removing
// state, write the entity first, then record the audit entry best-effort.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	auditdomain "hospital-records/internal/audit/domain"
	"hospital-records/internal/patient/domain"
	"hospital-records/internal/requestctx"
)

// Sentinel errors for the patient service.
var (
	ErrNotFound       = errors.New("patient not found")
	ErrMRNAlreadyUsed = errors.New("medical record number already in use")
)

// PatientRepo is the minimal patient repository needed by the service.
type PatientRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*domain.Patient, error)
	Create(ctx context.Context, p *domain.Patient) error
	Update(ctx context.Context, p *domain.Patient) error
	Delete(ctx context.Context, id string) error
}

// AuditRecorder is the subset of the audit writer the service calls.
type AuditRecorder interface {
	RecordCreated(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string, newState auditdomain.Snapshot) (*auditdomain.AuditEntry, error)
	RecordUpdated(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string, oldState, newState auditdomain.Snapshot) (*auditdomain.AuditEntry, error)
	RecordDeleted(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string, oldState auditdomain.Snapshot) (*auditdomain.AuditEntry, error)
	RecordAccessed(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string) (*auditdomain.AuditEntry, error)
}

// PatientService implements patient CRUD with audit capture.
type PatientService struct {
	repo  PatientRepo
	audit AuditRecorder
	now   func() time.Time
}

// NewPatientService returns a patient service over repo, auditing through recorder.
func NewPatientService(repo PatientRepo, recorder AuditRecorder) *PatientService {
	return &PatientService{repo: repo, audit: recorder, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the patient for id. Opening a full patient record is itself
// sensitive, so a successful fetch by an authenticated actor is recorded as
// an access entry.
func (s *PatientService) Get(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordAccessed(ctx, actorID, auditdomain.EntityPatient, p.ID); err != nil {
			log.Printf("patient: audit access entry failed for %s: %v", p.ID, err)
		}
	}
	return p, nil
}

// Create registers a new patient and records a created audit entry when an
// authenticated actor is present.
func (s *PatientService) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByMRN(ctx, p.MRN)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMRNAlreadyUsed
	}
	p.ID = uuid.New().String()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordCreated(ctx, actorID, auditdomain.EntityPatient, p.ID, p.Snapshot()); err != nil {
			log.Printf("patient: audit entry failed for %s: %v", p.ID, err)
		}
	}
	return p, nil
}

// Update rewrites the patient identified by in.ID with in's fields. The
// pre-mutation state is snapshotted before anything changes; a failed audit
// write is logged and does not undo the update.
func (s *PatientService) Update(ctx context.Context, in *domain.Patient) (*domain.Patient, error) {
	p, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	old := p.Snapshot()

	p.MRN = in.MRN
	p.FirstName = in.FirstName
	p.LastName = in.LastName
	p.DateOfBirth = in.DateOfBirth
	p.Sex = in.Sex
	p.Phone = in.Phone
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordUpdated(ctx, actorID, auditdomain.EntityPatient, p.ID, old, p.Snapshot()); err != nil {
			log.Printf("patient: audit entry failed for %s: %v", p.ID, err)
		}
	}
	return p, nil
}

// Delete removes the patient. The state is snapshotted before the delete
// executes, since afterwards it is unrecoverable.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}
	old := p.Snapshot()
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordDeleted(ctx, actorID, auditdomain.EntityPatient, id, old); err != nil {
			log.Printf("patient: audit entry failed for %s: %v", id, err)
		}
	}
	return nil
}
