package repository

import (
	"context"

	"hospital-records/internal/request/domain"
)

// Repository defines persistence for radiology requests.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	ListByPatient(ctx context.Context, patientID string) ([]*domain.Request, error)
	Create(ctx context.Context, r *domain.Request) error
	Update(ctx context.Context, r *domain.Request) error
	Delete(ctx context.Context, id string) error
}
