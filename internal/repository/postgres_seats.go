package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetById(ctx context.Context, id int) (*domain.Seat, error) {
	query := `
		SELECT id, hall_number, row_number, seat_number
		FROM seats
		WHERE id = $1
	`

	var seat domain.Seat

	err := p.db.QueryRow(ctx, query, id).Scan(
		&seat.ID,
		&seat.HallNumber,
		&seat.RowNumber,
		&seat.SeatNumber,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &seat, nil
}

func (p *PostgresSeatRepository) GetSeatsByHall(ctx context.Context, hallNumber int) ([]domain.Seat, error) {
	query := `
		SELECT id, hall_number, row_number, seat_number
		FROM seats
		WHERE hall_number = $1
		ORDER BY row_number, seat_number
	`

	rows, err := p.db.Query(ctx, query, hallNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err := rows.Scan(&seat.ID, &seat.HallNumber, &seat.RowNumber, &seat.SeatNumber)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

// HallExists reports whether any seat is provisioned under the hall number.
// Halls have no table of their own; their seats are their existence.
func (p *PostgresSeatRepository) HallExists(ctx context.Context, hallNumber int) (bool, error) {
	var exists bool

	err := p.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM seats WHERE hall_number = $1)`,
		hallNumber).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}
