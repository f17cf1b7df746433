package repository

import (
	"context"
	"database/sql"
	"errors"

	"hospital-records/internal/request/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a request repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const requestColumns = "id, patient_id, exam_type, indication, status, requested_by, created_at, updated_at"

// GetByID returns the request for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+requestColumns+" FROM requests WHERE id = $1", id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// ListByPatient returns the patient's requests, newest first.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string) ([]*domain.Request, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM requests WHERE patient_id = $1 ORDER BY created_at DESC", patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Create inserts the request. The request must have ID and timestamps set.
func (r *PostgresRepository) Create(ctx context.Context, req *domain.Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO requests (id, patient_id, exam_type, indication, status, requested_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.PatientID, req.ExamType, req.Indication, string(req.Status), req.RequestedBy, req.CreatedAt, req.UpdatedAt,
	)
	return err
}

// Update rewrites the request's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, req *domain.Request) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE requests SET exam_type = $2, indication = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		req.ID, req.ExamType, req.Indication, string(req.Status), req.UpdatedAt,
	)
	return err
}

// Delete removes the request row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM requests WHERE id = $1", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	var req domain.Request
	var status string
	if err := row.Scan(&req.ID, &req.PatientID, &req.ExamType, &req.Indication, &status, &req.RequestedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	req.Status = domain.Status(status)
	return &req, nil
}
