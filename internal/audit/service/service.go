// Package service implements the audit trail read path: filtered log listing
// and per-patient activity timelines.
package service

import (
	"context"
	"errors"

	"hospital-records/internal/audit/domain"
	"hospital-records/internal/audit/metrics"
	patientdomain "hospital-records/internal/patient/domain"
	userdomain "hospital-records/internal/user/domain"
)

// Sentinel errors for the audit read path.
var (
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPerPage  = errors.New("per page must be >= 1")
	ErrPerPageTooLarge = errors.New("per page exceeds the allowed maximum")
	ErrInvalidFilter   = errors.New("unknown action or entity type filter")
	ErrPatientNotFound = errors.New("patient not found")
)

// defaultMaxPerPage caps page sizes when the service is built with a
// non-positive maximum.
const defaultMaxPerPage = 100

// AuditRepo is the minimal audit repository needed by the read path.
type AuditRepo interface {
	List(ctx context.Context, f domain.Filter, limit, offset int) ([]*domain.AuditEntry, error)
	Count(ctx context.Context, f domain.Filter) (int, error)
	ListByPatient(ctx context.Context, patientID string) ([]*domain.AuditEntry, error)
}

// UserRepo is the minimal user repository needed for actor enrichment.
// GetByID returns nil, nil when the user no longer exists.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// PatientRepo is the minimal patient repository needed for timeline lookups.
// GetByID returns nil, nil when no patient matches.
type PatientRepo interface {
	GetByID(ctx context.Context, id string) (*patientdomain.Patient, error)
}

// Entry is an audit entry enriched with its actor's display fields. Actor is
// nil when the actor's user record has since been removed; that is not an
// error.
type Entry struct {
	*domain.AuditEntry
	Actor *domain.Actor
}

// Pagination describes the window a listing returned.
type Pagination struct {
	CurrentPage int
	LastPage    int
	Total       int
	PerPage     int
}

// LogPage is one page of the general audit log listing.
type LogPage struct {
	Entries    []*Entry
	Pagination Pagination
}

// PatientTimeline is the bucketed activity history for one patient: direct
// patient entries plus request and report entries whose captured snapshots
// embed the patient. Buckets preserve the unified newest-first order.
type PatientTimeline struct {
	Patient     *patientdomain.Patient
	PatientLogs []*Entry
	RequestLogs []*Entry
	ReportLogs  []*Entry
}

// QueryService serves audit log listings and patient timelines. Reads never
// create, modify, or remove entries.
type QueryService struct {
	repo       AuditRepo
	users      UserRepo
	patients   PatientRepo
	metrics    *metrics.Metrics
	maxPerPage int
}

// NewQueryService returns a read-path service over the given repositories.
// maxPerPage caps accepted page sizes; non-positive values fall back to the
// default. m may be nil to disable instrumentation.
func NewQueryService(repo AuditRepo, users UserRepo, patients PatientRepo, m *metrics.Metrics, maxPerPage int) *QueryService {
	if maxPerPage <= 0 {
		maxPerPage = defaultMaxPerPage
	}
	return &QueryService{repo: repo, users: users, patients: patients, metrics: m, maxPerPage: maxPerPage}
}
