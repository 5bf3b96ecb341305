package domain

import (
	"context"
	"time"
)

// Screening occupies the half-open window
// [ScreeningTime, ScreeningTime + movie duration) in its hall.
type Screening struct {
	ID            int
	MovieID       int
	HallNumber    int
	ScreeningTime time.Time

	MovieTitle       string
	MovieCategory    string
	MovieDescription string
}

type ScreeningRepository interface {
	GetAll(ctx context.Context) ([]Screening, error)
	GetAllActive(ctx context.Context) ([]Screening, error)
	GetById(ctx context.Context, id int) (*Screening, error)
	Create(ctx context.Context, screening *Screening) error
	Update(ctx context.Context, screening *Screening) error
	Delete(ctx context.Context, id int) error
}
