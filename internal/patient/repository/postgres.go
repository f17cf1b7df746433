package repository

import (
	"context"
	"database/sql"
	"errors"

	"hospital-records/internal/patient/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a patient repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const patientColumns = "id, mrn, first_name, last_name, date_of_birth, sex, phone, created_at, updated_at"

// GetByID returns the patient for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	return r.getOne(ctx, "SELECT "+patientColumns+" FROM patients WHERE id = $1", id)
}

// GetByMRN returns the patient for the medical record number, or nil if not found.
func (r *PostgresRepository) GetByMRN(ctx context.Context, mrn string) (*domain.Patient, error) {
	return r.getOne(ctx, "SELECT "+patientColumns+" FROM patients WHERE mrn = $1", mrn)
}

// Create inserts the patient. The patient must have ID and timestamps set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (id, mrn, first_name, last_name, date_of_birth, sex, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.MRN, p.FirstName, p.LastName, p.DateOfBirth, p.Sex, p.Phone, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// Update rewrites the patient's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE patients SET mrn = $2, first_name = $3, last_name = $4, date_of_birth = $5, sex = $6, phone = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.MRN, p.FirstName, p.LastName, p.DateOfBirth, p.Sex, p.Phone, p.UpdatedAt,
	)
	return err
}

// Delete removes the patient row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM patients WHERE id = $1", id)
	return err
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*domain.Patient, error) {
	var p domain.Patient
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Sex, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
