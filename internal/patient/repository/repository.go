package repository

import (
	"context"

	"hospital-records/internal/patient/domain"
)

// Repository defines persistence for patients.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*domain.Patient, error)
	Create(ctx context.Context, p *domain.Patient) error
	Update(ctx context.Context, p *domain.Patient) error
	Delete(ctx context.Context, id string) error
}
