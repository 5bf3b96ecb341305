package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context) ([]domain.Movie, error) {
	query := `
		SELECT id, title, duration, category, description
		FROM movies
		ORDER BY title
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(&movie.ID, &movie.Title, &movie.Duration, &movie.Category, &movie.Description)
		if err != nil {
			return nil, err
		}

		movies = append(movies, movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT id, title, duration, category, description
		FROM movies
		WHERE id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Duration,
		&movie.Category,
		&movie.Description,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `
		INSERT INTO movies (title, duration, category, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return p.db.QueryRow(
		ctx,
		query,
		movie.Title,
		movie.Duration,
		movie.Category,
		movie.Description).Scan(&movie.ID)
}

func (p *PostgresMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, duration = $2, category = $3, description = $4
		WHERE id = $5
	`

	tag, err := p.db.Exec(ctx, query, movie.Title, movie.Duration, movie.Category, movie.Description, movie.ID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// HasFutureScreenings backs the duration-lock guard: a movie's duration is
// immutable while any screening referencing it has not started yet.
func (p *PostgresMovieRepository) HasFutureScreenings(ctx context.Context, movieID int) (bool, error) {
	var exists bool

	err := p.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM screenings WHERE movie_id = $1 AND screening_time > now())`,
		movieID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}
