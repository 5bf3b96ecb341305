package domain

import "context"

// Seat is a fixed position in a hall, provisioned once and never mutated at
// runtime. A hall exists exactly when at least one seat is provisioned under
// its number.
type Seat struct {
	ID         int
	HallNumber int
	RowNumber  int
	SeatNumber int
}

type SeatRepository interface {
	GetById(ctx context.Context, id int) (*Seat, error)
	GetSeatsByHall(ctx context.Context, hallNumber int) ([]Seat, error)
	HallExists(ctx context.Context, hallNumber int) (bool, error)
}
