package service

import (
	"context"
	"errors"
	"testing"

	auditdomain "hospital-records/internal/audit/domain"
	patientdomain "hospital-records/internal/patient/domain"
	"hospital-records/internal/report/domain"
	requestdomain "hospital-records/internal/request/domain"
	"hospital-records/internal/requestctx"
)

type mockReportRepo struct {
	reports map[string]*domain.Report
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[string]*domain.Report)}
}

func (m *mockReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	if r, ok := m.reports[id]; ok {
		cp := *r
		cp.Patient = nil
		return &cp, nil
	}
	return nil, nil
}

func (m *mockReportRepo) GetByRequest(ctx context.Context, requestID string) (*domain.Report, error) {
	for _, r := range m.reports {
		if r.RequestID == requestID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockReportRepo) Create(ctx context.Context, r *domain.Report) error {
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *mockReportRepo) Update(ctx context.Context, r *domain.Report) error {
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *mockReportRepo) Delete(ctx context.Context, id string) error {
	delete(m.reports, id)
	return nil
}

type mockRequestRepo struct {
	requests map[string]*requestdomain.Request
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id string) (*requestdomain.Request, error) {
	return m.requests[id], nil
}

type mockPatientRepo struct {
	patients map[string]*patientdomain.Patient
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id string) (*patientdomain.Patient, error) {
	return m.patients[id], nil
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

func testService(rec *mockRecorder) *ReportService {
	requests := &mockRequestRepo{requests: map[string]*requestdomain.Request{
		"r1": {ID: "r1", PatientID: "p1", ExamType: "chest x-ray", RequestedBy: "user-1"},
	}}
	patients := &mockPatientRepo{patients: map[string]*patientdomain.Patient{
		"p1": {ID: "p1", MRN: "MRN-0001", FirstName: "Arun", LastName: "Nair"},
	}}
	return NewReportService(newMockReportRepo(), requests, patients, rec)
}

func actorCtx() context.Context {
	return requestctx.WithActor(context.Background(), "user-1")
}

func TestReportCreate_DerivesPatientFromRequest(t *testing.T) {
	rec := &mockRecorder{}
	svc := testService(rec)

	r, err := svc.Create(actorCtx(), &domain.Report{
		RequestID: "r1",
		Findings:  "No focal consolidation.",
		Status:    domain.StatusDraft,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.PatientID != "p1" {
		t.Errorf("patient id = %q, want p1 (derived from the request)", r.PatientID)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("audit calls = %d, want 1", len(rec.calls))
	}
	ref, ok := rec.calls[0].new["patient"].(map[string]any)
	if !ok || ref["id"] != "p1" {
		t.Errorf("new.patient = %v, want nested reference to p1", rec.calls[0].new["patient"])
	}
}

func TestReportCreate_RequestMustExist(t *testing.T) {
	svc := testService(&mockRecorder{})

	_, err := svc.Create(actorCtx(), &domain.Report{RequestID: "missing"})
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("err = %v, want ErrRequestNotFound", err)
	}
}

func TestReportCreate_OnePerRequest(t *testing.T) {
	svc := testService(&mockRecorder{})

	if _, err := svc.Create(actorCtx(), &domain.Report{RequestID: "r1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(actorCtx(), &domain.Report{RequestID: "r1"}); !errors.Is(err, ErrAlreadyReported) {
		t.Fatalf("err = %v, want ErrAlreadyReported", err)
	}
}

func TestReportUpdate_SnapshotsBeforeAndAfter(t *testing.T) {
	rec := &mockRecorder{}
	svc := testService(rec)

	r, err := svc.Create(actorCtx(), &domain.Report{RequestID: "r1", Status: domain.StatusDraft})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := *r
	in.Status = domain.StatusFinalized
	in.Impression = "No acute process."
	if _, err := svc.Update(actorCtx(), &in); err != nil {
		t.Fatalf("Update: %v", err)
	}

	c := rec.calls[len(rec.calls)-1]
	if c.action != auditdomain.ActionUpdated {
		t.Fatalf("action = %q, want updated", c.action)
	}
	if c.old["status"] != "draft" || c.new["status"] != "finalized" {
		t.Errorf("status snapshots = %v -> %v, want draft -> finalized", c.old["status"], c.new["status"])
	}
}

func TestReportDelete_SnapshotsOldState(t *testing.T) {
	rec := &mockRecorder{}
	svc := testService(rec)

	r, err := svc.Create(actorCtx(), &domain.Report{RequestID: "r1", Findings: "clear lungs"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(actorCtx(), r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	c := rec.calls[len(rec.calls)-1]
	if c.action != auditdomain.ActionDeleted {
		t.Fatalf("action = %q, want deleted", c.action)
	}
	if c.old["findings"] != "clear lungs" {
		t.Errorf("old snapshot = %v, want the pre-delete state", c.old)
	}
}
