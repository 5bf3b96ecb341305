package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

// hallScheduleLockClass namespaces the advisory locks taken while scheduling
// into a hall, so they cannot collide with advisory locks used elsewhere.
const hallScheduleLockClass = 735001

type PostgresScreeningRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreeningRepository(db *pgxpool.Pool) *PostgresScreeningRepository {
	return &PostgresScreeningRepository{
		db: db,
	}
}

func (p *PostgresScreeningRepository) GetAll(ctx context.Context) ([]domain.Screening, error) {
	query := `
		SELECT s.id, s.movie_id, s.hall_number, s.screening_time, m.title, m.category, m.description
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		ORDER BY s.screening_time
	`

	return p.queryScreenings(ctx, query)
}

func (p *PostgresScreeningRepository) GetAllActive(ctx context.Context) ([]domain.Screening, error) {
	// Strict comparison: a screening starting exactly now is no longer active.
	query := `
		SELECT s.id, s.movie_id, s.hall_number, s.screening_time, m.title, m.category, m.description
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.screening_time > now()
		ORDER BY s.screening_time
	`

	return p.queryScreenings(ctx, query)
}

func (p *PostgresScreeningRepository) queryScreenings(ctx context.Context, query string, args ...any) ([]domain.Screening, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	screenings := make([]domain.Screening, 0)

	for rows.Next() {
		var screening domain.Screening

		err := rows.Scan(
			&screening.ID,
			&screening.MovieID,
			&screening.HallNumber,
			&screening.ScreeningTime,
			&screening.MovieTitle,
			&screening.MovieCategory,
			&screening.MovieDescription,
		)
		if err != nil {
			return nil, err
		}

		screenings = append(screenings, screening)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return screenings, nil
}

func (p *PostgresScreeningRepository) GetById(ctx context.Context, id int) (*domain.Screening, error) {
	query := `
		SELECT s.id, s.movie_id, s.hall_number, s.screening_time, m.title, m.category, m.description
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.id = $1
	`

	var screening domain.Screening

	err := p.db.QueryRow(ctx, query, id).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.HallNumber,
		&screening.ScreeningTime,
		&screening.MovieTitle,
		&screening.MovieCategory,
		&screening.MovieDescription,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &screening, nil
}

// Create checks hall availability and inserts the screening in one
// transaction. A per-hall advisory lock serializes concurrent scheduling
// attempts on the same hall, so two creations cannot both observe a free
// window and both commit.
func (p *PostgresScreeningRepository) Create(ctx context.Context, screening *domain.Screening) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := lockHallSchedule(ctx, tx, screening.HallNumber)
		if err != nil {
			return err
		}

		duration, err := movieDuration(ctx, tx, screening.MovieID)
		if err != nil {
			return err
		}

		available, err := hallAvailable(ctx, tx, screening.HallNumber, screening.ScreeningTime, duration, 0)
		if err != nil {
			return err
		}
		if !available {
			return domain.ErrHallTimeConflict
		}

		query := `
			INSERT INTO screenings (movie_id, hall_number, screening_time)
			VALUES ($1, $2, $3)
			RETURNING id
		`

		return tx.QueryRow(
			ctx,
			query,
			screening.MovieID,
			screening.HallNumber,
			screening.ScreeningTime).Scan(&screening.ID)
	})
}

// Update applies the same availability check as Create, excluding the
// screening being edited from the overlap scan. The reservation guard runs in
// the same transaction so a reservation landing mid-edit cannot be silently
// rescheduled from under its owner.
func (p *PostgresScreeningRepository) Update(ctx context.Context, screening *domain.Screening) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := lockHallSchedule(ctx, tx, screening.HallNumber)
		if err != nil {
			return err
		}

		var reservationCount int

		err = tx.QueryRow(
			ctx,
			`SELECT count(*) FROM reservations WHERE screening_id = $1`,
			screening.ID).Scan(&reservationCount)
		if err != nil {
			return err
		}
		if reservationCount > 0 {
			return domain.ErrScreeningHasReservations
		}

		duration, err := movieDuration(ctx, tx, screening.MovieID)
		if err != nil {
			return err
		}

		available, err := hallAvailable(ctx, tx, screening.HallNumber, screening.ScreeningTime, duration, screening.ID)
		if err != nil {
			return err
		}
		if !available {
			return domain.ErrHallTimeConflict
		}

		query := `
			UPDATE screenings
			SET movie_id = $1, hall_number = $2, screening_time = $3
			WHERE id = $4
		`

		tag, err := tx.Exec(ctx, query, screening.MovieID, screening.HallNumber, screening.ScreeningTime, screening.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrRecordNotFound
		}

		return nil
	})
}

// Delete removes the screening unconditionally; its reservations go with it
// through the ON DELETE CASCADE constraint.
func (p *PostgresScreeningRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM screenings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func lockHallSchedule(ctx context.Context, tx pgx.Tx, hallNumber int) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, hallScheduleLockClass, hallNumber)
	return err
}

func movieDuration(ctx context.Context, tx pgx.Tx, movieID int) (int, error) {
	var duration int

	err := tx.QueryRow(ctx, `SELECT duration FROM movies WHERE id = $1`, movieID).Scan(&duration)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrRecordNotFound
		}

		return 0, err
	}

	return duration, nil
}

// hallAvailable scans every screening in the hall and applies the half-open
// overlap test: [newStart, newEnd) collides with [existingStart, existingEnd)
// iff newStart < existingEnd && newEnd > existingStart. A screening starting
// exactly when another ends is legal back-to-back scheduling.
func hallAvailable(
	ctx context.Context,
	tx pgx.Tx,
	hallNumber int,
	start time.Time,
	duration int,
	excludeScreeningID int) (bool, error) {

	query := `
		SELECT s.id, s.screening_time, m.duration
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.hall_number = $1
	`

	rows, err := tx.Query(ctx, query, hallNumber)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	end := start.Add(time.Duration(duration) * time.Minute)

	for rows.Next() {
		var (
			existingID       int
			existingStart    time.Time
			existingDuration int
		)

		err := rows.Scan(&existingID, &existingStart, &existingDuration)
		if err != nil {
			return false, err
		}

		if existingID == excludeScreeningID {
			continue
		}

		existingEnd := existingStart.Add(time.Duration(existingDuration) * time.Minute)

		if start.Before(existingEnd) && end.After(existingStart) {
			return false, nil
		}
	}

	if err = rows.Err(); err != nil {
		return false, err
	}

	return true, nil
}
