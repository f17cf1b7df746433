package domain

import (
	"errors"
	"time"

	auditdomain "hospital-records/internal/audit/domain"
)

// User is a staff account: the actor behind every audited action.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleRadiologist Role = "radiologist"
	RoleClinician   Role = "clinician"
	RoleReception   Role = "reception"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.FirstName == "" || u.LastName == "" {
		return errors.New("first and last name are required")
	}
	if u.Role == "" {
		return errors.New("role is required")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// Snapshot returns the full field state of the user for audit capture.
func (u *User) Snapshot() auditdomain.Snapshot {
	return auditdomain.Snapshot{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      string(u.Role),
		"status":    string(u.Status),
	}
}
