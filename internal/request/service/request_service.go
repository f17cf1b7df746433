// Package service implements radiology request operations, following the
// audit capture convention: snapshot before mutating, entity write first,
// audit entry second, best-effort.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	auditdomain "hospital-records/internal/audit/domain"
	patientdomain "hospital-records/internal/patient/domain"
	"hospital-records/internal/request/domain"
	"hospital-records/internal/requestctx"
)

// Sentinel errors for the request service.
var (
	ErrNotFound        = errors.New("request not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// RequestRepo is the minimal request repository needed by the service.
type RequestRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	Create(ctx context.Context, r *domain.Request) error
	Update(ctx context.Context, r *domain.Request) error
	Delete(ctx context.Context, id string) error
}

// PatientRepo is the minimal patient repository needed by the service.
type PatientRepo interface {
	GetByID(ctx context.Context, id string) (*patientdomain.Patient, error)
}

// AuditRecorder is the subset of the audit writer the service calls.
type AuditRecorder interface {
	RecordCreated(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string, newState auditdomain.Snapshot) (*auditdomain.AuditEntry, error)
	RecordUpdated(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string, oldState, newState auditdomain.Snapshot) (*auditdomain.AuditEntry, error)
	RecordDeleted(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string, oldState auditdomain.Snapshot) (*auditdomain.AuditEntry, error)
}

// RequestService implements radiology request CRUD with audit capture.
type RequestService struct {
	repo     RequestRepo
	patients PatientRepo
	audit    AuditRecorder
	now      func() time.Time
}

// NewRequestService returns a request service over repo, auditing through recorder.
func NewRequestService(repo RequestRepo, patients PatientRepo, recorder AuditRecorder) *RequestService {
	return &RequestService{repo: repo, patients: patients, audit: recorder, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the request for id with its patient relation loaded.
func (s *RequestService) Get(ctx context.Context, id string) (*domain.Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	if err := s.loadPatient(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Create files a new radiology request for an existing patient and records a
// created audit entry when an authenticated actor is present. The captured
// snapshot embeds the patient reference.
func (s *RequestService) Create(ctx context.Context, r *domain.Request) (*domain.Request, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.loadPatient(ctx, r); err != nil {
		return nil, err
	}
	r.ID = uuid.New().String()
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordCreated(ctx, actorID, auditdomain.EntityRequest, r.ID, r.Snapshot()); err != nil {
			log.Printf("request: audit entry failed for %s: %v", r.ID, err)
		}
	}
	return r, nil
}

// Update rewrites the request's exam details and status. The patient binding
// is immutable: a request never moves between patients.
func (s *RequestService) Update(ctx context.Context, in *domain.Request) (*domain.Request, error) {
	r, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	if err := s.loadPatient(ctx, r); err != nil {
		return nil, err
	}
	old := r.Snapshot()

	r.ExamType = in.ExamType
	r.Indication = in.Indication
	r.Status = in.Status
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordUpdated(ctx, actorID, auditdomain.EntityRequest, r.ID, old, r.Snapshot()); err != nil {
			log.Printf("request: audit entry failed for %s: %v", r.ID, err)
		}
	}
	return r, nil
}

// Delete removes the request, snapshotting its state first.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return ErrNotFound
	}
	if err := s.loadPatient(ctx, r); err != nil {
		return err
	}
	old := r.Snapshot()
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordDeleted(ctx, actorID, auditdomain.EntityRequest, id, old); err != nil {
			log.Printf("request: audit entry failed for %s: %v", id, err)
		}
	}
	return nil
}

func (s *RequestService) loadPatient(ctx context.Context, r *domain.Request) error {
	p, err := s.patients.GetByID(ctx, r.PatientID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPatientNotFound
	}
	r.Patient = p
	return nil
}
