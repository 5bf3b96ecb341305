package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           int
	Login        string
	Email        string
	PasswordHash []byte
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

// Principal is the verified identity attached to a request by the
// authentication middleware. Handlers trust it and never re-check
// credentials.
type Principal struct {
	UserID int
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetById(ctx context.Context, id int) (*User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash []byte) error
	Deactivate(ctx context.Context, id int) error
}
