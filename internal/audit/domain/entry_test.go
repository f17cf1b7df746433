package domain

import (
	"testing"
	"time"
)

func validEntry() *AuditEntry {
	return &AuditEntry{
		ID:         "entry-1",
		ActorID:    "user-1",
		Action:     ActionCreated,
		EntityType: EntityPatient,
		EntityID:   "patient-1",
		Changes:    &Changes{New: Snapshot{"firstName": "Arun"}},
		CreatedAt:  time.Now(),
	}
}

func TestAuditEntry_Validate_OK(t *testing.T) {
	if err := validEntry().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestAuditEntry_Validate_MissingActor(t *testing.T) {
	e := validEntry()
	e.ActorID = ""
	if err := e.Validate(); err == nil {
		t.Fatal("expected error for missing actor")
	}
}

func TestAuditEntry_Validate_UnknownAction(t *testing.T) {
	e := validEntry()
	e.Action = Action("archived")
	if err := e.Validate(); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestAuditEntry_Validate_UnknownEntityType(t *testing.T) {
	e := validEntry()
	e.EntityType = EntityType("Invoice")
	if err := e.Validate(); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}

func TestAuditEntry_Validate_CreatedNeedsNewOnly(t *testing.T) {
	e := validEntry()
	e.Changes = &Changes{Old: Snapshot{}, New: Snapshot{}}
	if err := e.Validate(); err == nil {
		t.Fatal("expected error: created must not carry old snapshot")
	}
	e.Changes = nil
	if err := e.Validate(); err == nil {
		t.Fatal("expected error: created must carry new snapshot")
	}
}

func TestAuditEntry_Validate_UpdatedNeedsBoth(t *testing.T) {
	e := validEntry()
	e.Action = ActionUpdated
	e.Changes = &Changes{New: Snapshot{}}
	if err := e.Validate(); err == nil {
		t.Fatal("expected error: updated must carry both snapshots")
	}
	e.Changes = &Changes{Old: Snapshot{}, New: Snapshot{}}
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestAuditEntry_Validate_DeletedNeedsOldOnly(t *testing.T) {
	e := validEntry()
	e.Action = ActionDeleted
	e.Changes = &Changes{Old: Snapshot{}}
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	e.Changes = &Changes{Old: Snapshot{}, New: Snapshot{}}
	if err := e.Validate(); err == nil {
		t.Fatal("expected error: deleted must not carry new snapshot")
	}
}

func TestAuditEntry_Validate_AccessedNoChanges(t *testing.T) {
	e := validEntry()
	e.Action = ActionAccessed
	e.Changes = nil
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	e.Changes = &Changes{New: Snapshot{}}
	if err := e.Validate(); err == nil {
		t.Fatal("expected error: accessed must not carry snapshots")
	}
}
