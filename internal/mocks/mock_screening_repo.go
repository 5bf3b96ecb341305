package mocks

import (
	"context"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type MockScreeningRepo struct {
	GetAllFunc       func(ctx context.Context) ([]domain.Screening, error)
	GetAllActiveFunc func(ctx context.Context) ([]domain.Screening, error)
	GetByIdFunc      func(ctx context.Context, id int) (*domain.Screening, error)
	CreateFunc       func(ctx context.Context, screening *domain.Screening) error
	UpdateFunc       func(ctx context.Context, screening *domain.Screening) error
	DeleteFunc       func(ctx context.Context, id int) error
}

func (m *MockScreeningRepo) GetAll(ctx context.Context) ([]domain.Screening, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockScreeningRepo) GetAllActive(ctx context.Context) ([]domain.Screening, error) {
	return m.GetAllActiveFunc(ctx)
}

func (m *MockScreeningRepo) GetById(ctx context.Context, id int) (*domain.Screening, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockScreeningRepo) Create(ctx context.Context, screening *domain.Screening) error {
	return m.CreateFunc(ctx, screening)
}

func (m *MockScreeningRepo) Update(ctx context.Context, screening *domain.Screening) error {
	return m.UpdateFunc(ctx, screening)
}

func (m *MockScreeningRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}
