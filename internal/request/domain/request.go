package domain

import (
	"errors"
	"time"

	auditdomain "hospital-records/internal/audit/domain"
	patientdomain "hospital-records/internal/patient/domain"
)

// Request is a radiology examination request for a patient.
type Request struct {
	ID          string
	PatientID   string
	ExamType    string
	Indication  string
	Status      Status
	RequestedBy string // user ID of the requesting clinician
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Patient is the loaded patient relation; set by the service before
	// snapshotting so the captured state embeds the patient reference.
	Patient *patientdomain.Patient
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Validate validates the request for persistence. Returns an error describing the first validation failure.
func (r *Request) Validate() error {
	if r.PatientID == "" {
		return errors.New("patient id is required")
	}
	if r.ExamType == "" {
		return errors.New("exam type is required")
	}
	if r.RequestedBy == "" {
		return errors.New("requested by is required")
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}

// Snapshot returns the full field state of the request for audit capture.
// The patient appears as a nested reference, not a flat column; the patient
// timeline lookup depends on that shape.
func (r *Request) Snapshot() auditdomain.Snapshot {
	s := auditdomain.Snapshot{
		"id":          r.ID,
		"examType":    r.ExamType,
		"indication":  r.Indication,
		"status":      string(r.Status),
		"requestedBy": r.RequestedBy,
	}
	if r.Patient != nil {
		s["patient"] = r.Patient.Ref()
	} else {
		s["patient"] = map[string]any{"id": r.PatientID}
	}
	return s
}
