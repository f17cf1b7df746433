// Package service implements report operations, following the audit capture
// convention: snapshot before mutating, entity write first, audit entry
// second, best-effort.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	auditdomain "hospital-records/internal/audit/domain"
	patientdomain "hospital-records/internal/patient/domain"
	"hospital-records/internal/report/domain"
	requestdomain "hospital-records/internal/request/domain"
	"hospital-records/internal/requestctx"
)

// Sentinel errors for the report service.
var (
	ErrNotFound        = errors.New("report not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrAlreadyReported = errors.New("request already has a report")
)

// ReportRepo is the minimal report repository needed by the service.
type ReportRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	GetByRequest(ctx context.Context, requestID string) (*domain.Report, error)
	Create(ctx context.Context, r *domain.Report) error
	Update(ctx context.Context, r *domain.Report) error
	Delete(ctx context.Context, id string) error
}

// RequestRepo is the minimal request repository needed by the service.
type RequestRepo interface {
	GetByID(ctx context.Context, id string) (*requestdomain.Request, error)
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

// ReportService implements report CRUD with audit capture.
type ReportService struct {
	repo     ReportRepo
	requests RequestRepo
	patients PatientRepo
	audit    AuditRecorder
	now      func() time.Time
}

// NewReportService returns a report service over repo, auditing through recorder.
func NewReportService(repo ReportRepo, requests RequestRepo, patients PatientRepo, recorder AuditRecorder) *ReportService {
	return &ReportService{repo: repo, requests: requests, patients: patients, audit: recorder, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the report for id with its patient relation loaded.
func (s *ReportService) Get(ctx context.Context, id string) (*domain.Report, error) {
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

// Create writes a new report against an existing request. The patient is
// derived from the request, never supplied by the caller; the captured
// snapshot embeds the patient reference.
func (s *ReportService) Create(ctx context.Context, r *domain.Report) (*domain.Report, error) {
	req, err := s.requests.GetByID(ctx, r.RequestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	existing, err := s.repo.GetByRequest(ctx, r.RequestID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReported
	}
	r.PatientID = req.PatientID
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
		if _, err := s.audit.RecordCreated(ctx, actorID, auditdomain.EntityReport, r.ID, r.Snapshot()); err != nil {
			log.Printf("report: audit entry failed for %s: %v", r.ID, err)
		}
	}
	return r, nil
}

// Update rewrites the report's findings, impression, and status.
func (s *ReportService) Update(ctx context.Context, in *domain.Report) (*domain.Report, error) {
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

	r.Findings = in.Findings
	r.Impression = in.Impression
	r.Status = in.Status
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordUpdated(ctx, actorID, auditdomain.EntityReport, r.ID, old, r.Snapshot()); err != nil {
			log.Printf("report: audit entry failed for %s: %v", r.ID, err)
		}
	}
	return r, nil
}

// Delete removes the report, snapshotting its state first.
func (s *ReportService) Delete(ctx context.Context, id string) error {
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
		if _, err := s.audit.RecordDeleted(ctx, actorID, auditdomain.EntityReport, id, old); err != nil {
			log.Printf("report: audit entry failed for %s: %v", id, err)
		}
	}
	return nil
}

func (s *ReportService) loadPatient(ctx context.Context, r *domain.Report) error {
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
