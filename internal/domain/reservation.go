package domain

import (
	"context"
	"time"
)

type Reservation struct {
	ID          int
	UserID      int
	ScreeningID int
	SeatID      int
	CreatedAt   time.Time

	// ScreeningTime is populated on lookups that join the screening,
	// so cancellation can be rejected once the show has started.
	ScreeningTime time.Time
}

// UserReservation is the composite record shown in a user's reservation
// history: reservation, seat position and screening details in one row.
type UserReservation struct {
	ReservationID int
	ScreeningID   int
	MovieTitle    string
	ScreeningTime time.Time
	HallNumber    int
	RowNumber     int
	SeatNumber    int
	CreatedAt     time.Time
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *Reservation) error
	GetById(ctx context.Context, id int) (*Reservation, error)
	Delete(ctx context.Context, id int) error
	GetAllByUserId(ctx context.Context, userID int) ([]UserReservation, error)
	GetSeatIdsByScreening(ctx context.Context, screeningID int) ([]int, error)
}
