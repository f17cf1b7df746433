package service

import (
	"context"
	"sort"
	"time"

	"hospital-records/internal/audit/domain"
	patientdomain "hospital-records/internal/patient/domain"
	userdomain "hospital-records/internal/user/domain"
)

// fakeAuditRepo is an in-memory audit store for read-path tests. Filtering
// and the nested patient scan are evaluated in Go, mirroring what the
// Postgres repository does in SQL.
type fakeAuditRepo struct {
	entries []*domain.AuditEntry
	listErr error
}

func (f *fakeAuditRepo) matching(fl domain.Filter) []*domain.AuditEntry {
	out := make([]*domain.AuditEntry, 0)
	for _, e := range f.entries {
		if fl.EntityType != "" && e.EntityType != fl.EntityType {
			continue
		}
		if fl.Action != "" && e.Action != fl.Action {
			continue
		}
		if fl.ActorID != "" && e.ActorID != fl.ActorID {
			continue
		}
		if fl.EntityID != "" && e.EntityID != fl.EntityID {
			continue
		}
		if fl.StartDate != nil && e.CreatedAt.Before(*fl.StartDate) {
			continue
		}
		if fl.EndDate != nil && e.CreatedAt.After(*fl.EndDate) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeAuditRepo) List(ctx context.Context, fl domain.Filter, limit, offset int) ([]*domain.AuditEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	all := f.matching(fl)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeAuditRepo) Count(ctx context.Context, fl domain.Filter) (int, error) {
	return len(f.matching(fl)), nil
}

func (f *fakeAuditRepo) ListByPatient(ctx context.Context, patientID string) ([]*domain.AuditEntry, error) {
	out := make([]*domain.AuditEntry, 0)
	for _, e := range f.entries {
		direct := e.EntityType == domain.EntityPatient && e.EntityID == patientID
		nested := e.Changes != nil && (refersToPatient(e.Changes.New, patientID) || refersToPatient(e.Changes.Old, patientID))
		if direct || nested {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func refersToPatient(s domain.Snapshot, patientID string) bool {
	p, ok := s["patient"].(map[string]any)
	if !ok {
		return false
	}
	id, _ := p["id"].(string)
	return id == patientID
}

type fakeUserRepo struct {
	users   map[string]*userdomain.User
	getErr  error
	lookups int
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	f.lookups++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.users[id], nil
}

type fakePatientRepo struct {
	patients map[string]*patientdomain.Patient
}

func (f *fakePatientRepo) GetByID(ctx context.Context, id string) (*patientdomain.Patient, error) {
	return f.patients[id], nil
}

func at(minutesAgo int) time.Time {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return base.Add(-time.Duration(minutesAgo) * time.Minute)
}

func entry(id string, actorID string, action domain.Action, et domain.EntityType, entityID string, changes *domain.Changes, createdAt time.Time) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:         id,
		ActorID:    actorID,
		Action:     action,
		EntityType: et,
		EntityID:   entityID,
		Changes:    changes,
		CreatedAt:  createdAt,
	}
}

func testUsers() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*userdomain.User{
		"user-1": {ID: "user-1", FirstName: "Dev", LastName: "Admin", Email: "admin@hospital.local"},
	}}
}
