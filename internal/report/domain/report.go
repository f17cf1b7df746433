package domain

import (
	"errors"
	"time"

	auditdomain "hospital-records/internal/audit/domain"
	patientdomain "hospital-records/internal/patient/domain"
)

// Report is the radiologist's written result for a completed request.
type Report struct {
	ID         string
	RequestID  string
	PatientID  string
	Findings   string
	Impression string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Patient is the loaded patient relation; set by the service before
	// snapshotting so the captured state embeds the patient reference.
	Patient *patientdomain.Patient
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
	StatusAmended   Status = "amended"
)

// Validate validates the report for persistence. Returns an error describing the first validation failure.
func (r *Report) Validate() error {
	if r.RequestID == "" {
		return errors.New("request id is required")
	}
	if r.PatientID == "" {
		return errors.New("patient id is required")
	}
	if r.Status == "" {
		r.Status = StatusDraft
	}
	return nil
}

// Snapshot returns the full field state of the report for audit capture.
// The patient appears as a nested reference, matching the request snapshot
// shape.
func (r *Report) Snapshot() auditdomain.Snapshot {
	s := auditdomain.Snapshot{
		"id":         r.ID,
		"requestId":  r.RequestID,
		"findings":   r.Findings,
		"impression": r.Impression,
		"status":     string(r.Status),
	}
	if r.Patient != nil {
		s["patient"] = r.Patient.Ref()
	} else {
		s["patient"] = map[string]any{"id": r.PatientID}
	}
	return s
}
