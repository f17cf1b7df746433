package repository

import (
	"context"
	"database/sql"
	"errors"

	"hospital-records/internal/report/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a report repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reportColumns = "id, request_id, patient_id, findings, impression, status, created_at, updated_at"

// GetByID returns the report for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	return r.getOne(ctx, "SELECT "+reportColumns+" FROM reports WHERE id = $1", id)
}

// GetByRequest returns the report written for the request, or nil if none exists yet.
func (r *PostgresRepository) GetByRequest(ctx context.Context, requestID string) (*domain.Report, error) {
	return r.getOne(ctx, "SELECT "+reportColumns+" FROM reports WHERE request_id = $1", requestID)
}

// Create inserts the report. The report must have ID and timestamps set.
func (r *PostgresRepository) Create(ctx context.Context, rep *domain.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, request_id, patient_id, findings, impression, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rep.ID, rep.RequestID, rep.PatientID, rep.Findings, rep.Impression, string(rep.Status), rep.CreatedAt, rep.UpdatedAt,
	)
	return err
}

// Update rewrites the report's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, rep *domain.Report) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reports SET findings = $2, impression = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		rep.ID, rep.Findings, rep.Impression, string(rep.Status), rep.UpdatedAt,
	)
	return err
}

// Delete removes the report row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM reports WHERE id = $1", id)
	return err
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*domain.Report, error) {
	var rep domain.Report
	var status string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&rep.ID, &rep.RequestID, &rep.PatientID, &rep.Findings, &rep.Impression, &status, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rep.Status = domain.Status(status)
	return &rep, nil
}
