package domain

import (
	"errors"
	"time"

	auditdomain "hospital-records/internal/audit/domain"
)

// Patient is the core patient entity.
type Patient struct {
	ID          string
	MRN         string // medical record number, unique per patient
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Sex         string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates the patient for persistence. Returns an error describing the first validation failure.
func (p *Patient) Validate() error {
	if p.MRN == "" {
		return errors.New("mrn is required")
	}
	if p.FirstName == "" || p.LastName == "" {
		return errors.New("first and last name are required")
	}
	if p.DateOfBirth.IsZero() {
		return errors.New("date of birth is required")
	}
	return nil
}

// Snapshot returns the full field state of the patient for audit capture.
func (p *Patient) Snapshot() auditdomain.Snapshot {
	return auditdomain.Snapshot{
		"id":          p.ID,
		"mrn":         p.MRN,
		"firstName":   p.FirstName,
		"lastName":    p.LastName,
		"dateOfBirth": p.DateOfBirth.Format("2006-01-02"),
		"sex":         p.Sex,
		"phone":       p.Phone,
	}
}

// Ref returns the nested reference other entities embed in their audit
// snapshots. The patient timeline lookup matches on its "id" field.
func (p *Patient) Ref() map[string]any {
	return map[string]any{
		"id":        p.ID,
		"firstName": p.FirstName,
		"lastName":  p.LastName,
	}
}
