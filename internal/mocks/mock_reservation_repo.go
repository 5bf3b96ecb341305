package mocks

import (
	"context"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type MockReservationRepo struct {
	CreateFunc                func(ctx context.Context, reservation *domain.Reservation) error
	GetByIdFunc               func(ctx context.Context, id int) (*domain.Reservation, error)
	DeleteFunc                func(ctx context.Context, id int) error
	GetAllByUserIdFunc        func(ctx context.Context, userID int) ([]domain.UserReservation, error)
	GetSeatIdsByScreeningFunc func(ctx context.Context, screeningID int) ([]int, error)
}

func (m *MockReservationRepo) Create(ctx context.Context, reservation *domain.Reservation) error {
	return m.CreateFunc(ctx, reservation)
}

func (m *MockReservationRepo) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockReservationRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockReservationRepo) GetAllByUserId(ctx context.Context, userID int) ([]domain.UserReservation, error) {
	return m.GetAllByUserIdFunc(ctx, userID)
}

func (m *MockReservationRepo) GetSeatIdsByScreening(ctx context.Context, screeningID int) ([]int, error) {
	return m.GetSeatIdsByScreeningFunc(ctx, screeningID)
}
