// Package service implements staff account operations, following the audit
// capture convention for mutations.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	auditdomain "hospital-records/internal/audit/domain"
	"hospital-records/internal/requestctx"
	"hospital-records/internal/user/domain"
)

// Sentinel errors for the user service.
var (
	ErrNotFound               = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

// UserRepo is the minimal user repository needed by the service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

// AuditRecorder is the subset of the audit writer the service calls.
type AuditRecorder interface {
	RecordCreated(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string, newState auditdomain.Snapshot) (*auditdomain.AuditEntry, error)
	RecordUpdated(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string, oldState, newState auditdomain.Snapshot) (*auditdomain.AuditEntry, error)
	RecordDeleted(ctx context.Context, actorID string, entityType auditdomain.EntityType, entityID string, oldState auditdomain.Snapshot) (*auditdomain.AuditEntry, error)
}

// UserService implements staff account CRUD with audit capture.
type UserService struct {
	repo  UserRepo
	audit AuditRecorder
	now   func() time.Time
}

// NewUserService returns a user service over repo, auditing through recorder.
func NewUserService(repo UserRepo, recorder AuditRecorder) *UserService {
	return &UserService{repo: repo, audit: recorder, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the user for id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Create registers a new staff account and records a created audit entry when
// an authenticated actor is present.
func (s *UserService) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	u.ID = uuid.New().String()
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordCreated(ctx, actorID, auditdomain.EntityUser, u.ID, u.Snapshot()); err != nil {
			log.Printf("user: audit entry failed for %s: %v", u.ID, err)
		}
	}
	return u, nil
}

// Update rewrites the user identified by in.ID with in's fields, snapshotting
// the pre-mutation state first.
func (s *UserService) Update(ctx context.Context, in *domain.User) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	old := u.Snapshot()

	u.Email = in.Email
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Role = in.Role
	u.Status = in.Status
	if err := u.Validate(); err != nil {
		return nil, err
	}
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordUpdated(ctx, actorID, auditdomain.EntityUser, u.ID, old, u.Snapshot()); err != nil {
			log.Printf("user: audit entry failed for %s: %v", u.ID, err)
		}
	}
	return u, nil
}

// Delete removes the staff account. Audit entries that reference the removed
// user as actor remain; the read path renders them with a nil actor.
func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	old := u.Snapshot()
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if actorID, ok := requestctx.ActorID(ctx); ok {
		if _, err := s.audit.RecordDeleted(ctx, actorID, auditdomain.EntityUser, id, old); err != nil {
			log.Printf("user: audit entry failed for %s: %v", id, err)
		}
	}
	return nil
}
