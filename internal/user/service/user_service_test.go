package service

import (
	"context"
	"errors"
	"testing"

	auditdomain "hospital-records/internal/audit/domain"
	"hospital-records/internal/requestctx"
	"hospital-records/internal/user/domain"
)

type mockUserRepo struct {
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	delete(m.users, id)
	return nil
}

type recordedCall struct {
	action   auditdomain.Action
	entityID string
	old      auditdomain.Snapshot
	new      auditdomain.Snapshot
}

type mockRecorder struct {
	calls []recordedCall
}

func (m *mockRecorder) RecordCreated(ctx context.Context, actorID string, et auditdomain.EntityType, id string, newState auditdomain.Snapshot) (*auditdomain.AuditEntry, error) {
	m.calls = append(m.calls, recordedCall{action: auditdomain.ActionCreated, entityID: id, new: newState})
	return &auditdomain.AuditEntry{}, nil
}

func (m *mockRecorder) RecordUpdated(ctx context.Context, actorID string, et auditdomain.EntityType, id string, oldState, newState auditdomain.Snapshot) (*auditdomain.AuditEntry, error) {
	m.calls = append(m.calls, recordedCall{action: auditdomain.ActionUpdated, entityID: id, old: oldState, new: newState})
	return &auditdomain.AuditEntry{}, nil
}

func (m *mockRecorder) RecordDeleted(ctx context.Context, actorID string, et auditdomain.EntityType, id string, oldState auditdomain.Snapshot) (*auditdomain.AuditEntry, error) {
	m.calls = append(m.calls, recordedCall{action: auditdomain.ActionDeleted, entityID: id, old: oldState})
	return &auditdomain.AuditEntry{}, nil
}

func actorCtx() context.Context {
	return requestctx.WithActor(context.Background(), "user-0")
}

func newUser() *domain.User {
	return &domain.User{
		Email:     "radiologist@hospital.local",
		FirstName: "Rhea",
		LastName:  "Varma",
		Role:      domain.RoleRadiologist,
		Status:    domain.UserStatusActive,
	}
}

func TestUserCreate_RecordsAudit(t *testing.T) {
	rec := &mockRecorder{}
	svc := NewUserService(newMockUserRepo(), rec)

	u, err := svc.Create(actorCtx(), newUser())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("audit calls = %d, want 1", len(rec.calls))
	}
	c := rec.calls[0]
	if c.action != auditdomain.ActionCreated || c.entityID != u.ID {
		t.Errorf("call = %+v, want created %s", c, u.ID)
	}
	if c.new["email"] != "radiologist@hospital.local" || c.new["role"] != "radiologist" {
		t.Errorf("new snapshot = %v, want full field capture", c.new)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), &mockRecorder{})

	if _, err := svc.Create(actorCtx(), newUser()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(actorCtx(), newUser()); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestUserUpdate_SnapshotsBeforeAndAfter(t *testing.T) {
	rec := &mockRecorder{}
	svc := NewUserService(newMockUserRepo(), rec)

	u, err := svc.Create(actorCtx(), newUser())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	in := *u
	in.Status = domain.UserStatusDisabled
	if _, err := svc.Update(actorCtx(), &in); err != nil {
		t.Fatalf("Update: %v", err)
	}
	c := rec.calls[len(rec.calls)-1]
	if c.old["status"] != "active" || c.new["status"] != "disabled" {
		t.Errorf("status snapshots = %v -> %v, want active -> disabled", c.old["status"], c.new["status"])
	}
}

func TestUserDelete_SnapshotsOldState(t *testing.T) {
	repo := newMockUserRepo()
	rec := &mockRecorder{}
	svc := NewUserService(repo, rec)

	u, err := svc.Create(actorCtx(), newUser())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(actorCtx(), u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.users[u.ID]; ok {
		t.Error("user should be removed")
	}
	c := rec.calls[len(rec.calls)-1]
	if c.action != auditdomain.ActionDeleted || c.old["email"] != "radiologist@hospital.local" {
		t.Errorf("call = %+v, want deleted with the pre-delete snapshot", c)
	}
}

func TestUserMutations_NoActorNoAudit(t *testing.T) {
	rec := &mockRecorder{}
	svc := NewUserService(newMockUserRepo(), rec)

	if _, err := svc.Create(context.Background(), newUser()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("audit calls = %d, want 0 (silent omission)", len(rec.calls))
	}
}
