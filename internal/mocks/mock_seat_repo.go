package mocks

import (
	"context"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type MockSeatRepo struct {
	GetByIdFunc        func(ctx context.Context, id int) (*domain.Seat, error)
	GetSeatsByHallFunc func(ctx context.Context, hallNumber int) ([]domain.Seat, error)
	HallExistsFunc     func(ctx context.Context, hallNumber int) (bool, error)
}

func (m *MockSeatRepo) GetById(ctx context.Context, id int) (*domain.Seat, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockSeatRepo) GetSeatsByHall(ctx context.Context, hallNumber int) ([]domain.Seat, error) {
	return m.GetSeatsByHallFunc(ctx, hallNumber)
}

func (m *MockSeatRepo) HallExists(ctx context.Context, hallNumber int) (bool, error) {
	return m.HallExistsFunc(ctx, hallNumber)
}
