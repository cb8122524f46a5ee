package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-auth-service/internal/domain/entity"
)

// ErrDuplicateEmail is returned by Add when the storage-level unique
// constraint on email rejects the insert.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository defines the interface for user-related storage operations.
// Lookups report absence as (nil, nil); errors are reserved for storage failures.
// Emails passed in are compared case-insensitively.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Add(ctx context.Context, u *entity.User) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) (*entity.User, error)
}
