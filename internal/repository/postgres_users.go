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

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

func (p *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (login, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		user.Login,
		user.Email,
		user.PasswordHash,
		user.Role).Scan(&user.ID, &user.IsActive, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrUserAlreadyExists
		}

		return err
	}

	return nil
}

func (p *PostgresUserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
		SELECT id, login, email, password_hash, role, is_active, created_at
		FROM users
		WHERE login = $1
	`

	return p.queryUser(ctx, query, login)
}

func (p *PostgresUserRepository) GetById(ctx context.Context, id int) (*domain.User, error) {
	query := `
		SELECT id, login, email, password_hash, role, is_active, created_at
		FROM users
		WHERE id = $1
	`

	return p.queryUser(ctx, query, id)
}

func (p *PostgresUserRepository) queryUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Login,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &user, nil
}

func (p *PostgresUserRepository) UpdatePassword(ctx context.Context, id int, passwordHash []byte) error {
	tag, err := p.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresUserRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `UPDATE users SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
