package mocks

import (
	"context"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type MockUserRepo struct {
	CreateFunc         func(ctx context.Context, user *domain.User) error
	GetByLoginFunc     func(ctx context.Context, login string) (*domain.User, error)
	GetByIdFunc        func(ctx context.Context, id int) (*domain.User, error)
	UpdatePasswordFunc func(ctx context.Context, id int, passwordHash []byte) error
	DeactivateFunc     func(ctx context.Context, id int) error
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *MockUserRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return m.GetByLoginFunc(ctx, login)
}

func (m *MockUserRepo) GetById(ctx context.Context, id int) (*domain.User, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, id int, passwordHash []byte) error {
	return m.UpdatePasswordFunc(ctx, id, passwordHash)
}

func (m *MockUserRepo) Deactivate(ctx context.Context, id int) error {
	return m.DeactivateFunc(ctx, id)
}
