package repository

import (
	"context"

	"hospital-records/internal/report/domain"
)

// Repository defines persistence for reports.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	GetByRequest(ctx context.Context, requestID string) (*domain.Report, error)
	Create(ctx context.Context, r *domain.Report) error
	Update(ctx context.Context, r *domain.Report) error
	Delete(ctx context.Context, id string) error
}
