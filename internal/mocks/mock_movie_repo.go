package mocks

import (
	"context"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type MockMovieRepo struct {
	GetAllFunc              func(ctx context.Context) ([]domain.Movie, error)
	GetByIdFunc             func(ctx context.Context, id int) (*domain.Movie, error)
	CreateFunc              func(ctx context.Context, movie *domain.Movie) error
	UpdateFunc              func(ctx context.Context, movie *domain.Movie) error
	DeleteFunc              func(ctx context.Context, id int) error
	HasFutureScreeningsFunc func(ctx context.Context, movieID int) (bool, error)
}

func (m *MockMovieRepo) GetAll(ctx context.Context) ([]domain.Movie, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	return m.CreateFunc(ctx, movie)
}

func (m *MockMovieRepo) Update(ctx context.Context, movie *domain.Movie) error {
	return m.UpdateFunc(ctx, movie)
}

func (m *MockMovieRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockMovieRepo) HasFutureScreenings(ctx context.Context, movieID int) (bool, error) {
	return m.HasFutureScreeningsFunc(ctx, movieID)
}
