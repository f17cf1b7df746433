package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hospital-records/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit entry repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = "id, actor_id, action, entity_type, entity_id, changes, ip_address, user_agent, created_at"

// Create inserts the entry. The entry must have ID and CreatedAt set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.AuditEntry) error {
	var changes sql.NullString
	if e.Changes != nil {
		b, err := json.Marshal(e.Changes)
		if err != nil {
			return fmt.Errorf("marshal changes: %w", err)
		}
		changes = sql.NullString{String: string(b), Valid: true}
	}
	ip := sql.NullString{String: e.IPAddress, Valid: e.IPAddress != ""}
	ua := sql.NullString{String: e.UserAgent, Valid: e.UserAgent != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, changes, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.ActorID, string(e.Action), string(e.EntityType), e.EntityID, changes, ip, ua, e.CreatedAt,
	)
	return err
}

// GetByID returns the entry for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.AuditEntry, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM audit_logs WHERE id = $1", id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// List returns entries matching f ordered by created_at descending, windowed
// by limit and offset.
func (r *PostgresRepository) List(ctx context.Context, f domain.Filter, limit, offset int) ([]*domain.AuditEntry, error) {
	where, args := buildWhere(f)
	args = append(args, limit, offset)
	q := fmt.Sprintf("SELECT %s FROM audit_logs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		entryColumns, where, len(args)-1, len(args))
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// Count returns the total number of entries matching f.
func (r *PostgresRepository) Count(ctx context.Context, f domain.Filter) (int, error) {
	where, args := buildWhere(f)
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&n)
	return n, err
}

// ListByPatient returns every entry that targets the patient directly or
// embeds the patient inside a captured snapshot, newest first. Request and
// Report snapshots store the patient as a nested object rather than a flat
// column, hence the JSONB path predicates.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string) ([]*domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM audit_logs
		WHERE (entity_type = $1 AND entity_id = $2)
		   OR changes -> 'new' -> 'patient' ->> 'id' = $3
		   OR changes -> 'old' -> 'patient' ->> 'id' = $3
		ORDER BY created_at DESC`,
		string(domain.EntityPatient), patientID, patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// buildWhere renders the WHERE clause for f with positional args starting at $1.
func buildWhere(f domain.Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}
	if f.EntityType != "" {
		add("entity_type = $%d", string(f.EntityType))
	}
	if f.Action != "" {
		add("action = $%d", string(f.Action))
	}
	if f.ActorID != "" {
		add("actor_id = $%d", f.ActorID)
	}
	if f.EntityID != "" {
		add("entity_id = $%d", f.EntityID)
	}
	if f.StartDate != nil {
		add("created_at >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("created_at <= $%d", *f.EndDate)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.AuditEntry, error) {
	var e domain.AuditEntry
	var action, entityType string
	var changes, ip, ua sql.NullString
	if err := row.Scan(&e.ID, &e.ActorID, &action, &entityType, &e.EntityID, &changes, &ip, &ua, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Action = domain.Action(action)
	e.EntityType = domain.EntityType(entityType)
	e.IPAddress = ip.String
	e.UserAgent = ua.String
	if changes.Valid {
		var c domain.Changes
		if err := json.Unmarshal([]byte(changes.String), &c); err != nil {
			return nil, fmt.Errorf("unmarshal changes for entry %s: %w", e.ID, err)
		}
		e.Changes = &c
	}
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]*domain.AuditEntry, error) {
	out := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
