package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

// Create inserts the reservation and lets the UNIQUE (screening_id, seat_id)
// constraint arbitrate concurrent requests for the same seat: of any set of
// racing inserts exactly one commits, the rest surface ErrSeatAlreadyReserved.
func (p *PostgresReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (user_id, screening_id, seat_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		reservation.UserID,
		reservation.ScreeningID,
		reservation.SeatID).Scan(&reservation.ID, &reservation.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrSeatAlreadyReserved
		}

		return err
	}

	return nil
}

func (p *PostgresReservationRepository) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	query := `
		SELECT r.id, r.user_id, r.screening_id, r.seat_id, r.created_at, s.screening_time
		FROM reservations r
		JOIN screenings s ON r.screening_id = s.id
		WHERE r.id = $1
	`

	var reservation domain.Reservation

	err := p.db.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.ScreeningID,
		&reservation.SeatID,
		&reservation.CreatedAt,
		&reservation.ScreeningTime,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &reservation, nil
}

func (p *PostgresReservationRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresReservationRepository) GetAllByUserId(ctx context.Context, userID int) ([]domain.UserReservation, error) {
	query := `
		SELECT r.id, r.screening_id, m.title, s.screening_time, s.hall_number,
			se.row_number, se.seat_number, r.created_at
		FROM reservations r
		JOIN screenings s ON r.screening_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN seats se ON r.seat_id = se.id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.UserReservation, 0)

	for rows.Next() {
		var reservation domain.UserReservation

		err := rows.Scan(
			&reservation.ReservationID,
			&reservation.ScreeningID,
			&reservation.MovieTitle,
			&reservation.ScreeningTime,
			&reservation.HallNumber,
			&reservation.RowNumber,
			&reservation.SeatNumber,
			&reservation.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		reservations = append(reservations, reservation)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (p *PostgresReservationRepository) GetSeatIdsByScreening(ctx context.Context, screeningID int) ([]int, error) {
	query := `
		SELECT seat_id
		FROM reservations
		WHERE screening_id = $1
	`

	rows, err := p.db.Query(ctx, query, screeningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatIDs := make([]int, 0)

	for rows.Next() {
		var seatID int

		err := rows.Scan(&seatID)
		if err != nil {
			return nil, err
		}

		seatIDs = append(seatIDs, seatID)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatIDs, nil
}
