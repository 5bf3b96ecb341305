package domain

import "context"

type Movie struct {
	ID          int
	Title       string
	Duration    int
	Category    string
	Description string
}

type MovieRepository interface {
	GetAll(ctx context.Context) ([]Movie, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int) error
	HasFutureScreenings(ctx context.Context, movieID int) (bool, error)
}
