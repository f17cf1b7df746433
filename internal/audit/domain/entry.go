// Package domain defines the audit trail entry model.
package domain

import (
	"errors"
	"time"
)

// Action is the kind of operation an audit entry records. Terminal: never
// changes after the entry is created.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionAccessed Action = "accessed"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionAccessed:
		return true
	}
	return false
}

// EntityType identifies which logical entity an audit entry refers to.
type EntityType string

const (
	EntityPatient EntityType = "Patient"
	EntityRequest EntityType = "Request"
	EntityReport  EntityType = "Report"
	EntityUser    EntityType = "User"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityPatient, EntityRequest, EntityReport, EntityUser:
		return true
	}
	return false
}

// Snapshot is a full captured copy of an entity's field values at a point in
// time. Each entity type has its own fields, so the shape is an open map; the
// presentation layer interprets field names per entity type.
type Snapshot map[string]any

// Changes holds the before/after snapshots attached to an entry. Old and New
// are full snapshots, never reduced to just the changed fields; readers
// compute displayed diffs by comparing the two per field. created entries
// carry New only, deleted entries Old only, updated entries both. accessed
// entries have no Changes at all (nil on the entry).
type Changes struct {
	Old Snapshot `json:"old,omitempty"`
	New Snapshot `json:"new,omitempty"`
}

// AuditEntry is one immutable record of a single action taken on an entity.
// Entries are append-only: application code never updates or deletes them.
type AuditEntry struct {
	ID         string
	ActorID    string
	Action     Action
	EntityType EntityType
	EntityID   string
	Changes    *Changes
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

// Actor holds the denormalized display fields of the user who performed an
// audited action, attached to read-path results when the user still exists.
type Actor struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// Validate checks the entry for persistence. Returns an error describing the
// first validation failure.
func (e *AuditEntry) Validate() error {
	if e.ActorID == "" {
		return errors.New("actor id is required")
	}
	if !e.Action.Valid() {
		return errors.New("unknown action")
	}
	if !e.EntityType.Valid() {
		return errors.New("unknown entity type")
	}
	if e.EntityID == "" {
		return errors.New("entity id is required")
	}
	switch e.Action {
	case ActionCreated:
		if e.Changes == nil || e.Changes.New == nil || e.Changes.Old != nil {
			return errors.New("created entries must carry a new snapshot only")
		}
	case ActionUpdated:
		if e.Changes == nil || e.Changes.Old == nil || e.Changes.New == nil {
			return errors.New("updated entries must carry both snapshots")
		}
	case ActionDeleted:
		if e.Changes == nil || e.Changes.Old == nil || e.Changes.New != nil {
			return errors.New("deleted entries must carry an old snapshot only")
		}
	case ActionAccessed:
		if e.Changes != nil {
			return errors.New("accessed entries must not carry snapshots")
		}
	}
	return nil
}
