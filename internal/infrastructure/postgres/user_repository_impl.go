package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-auth-service/internal/domain/repository"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const userColumns = `id, email, first_name, last_name, password_hash, role,
	is_email_verified, is_active, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID returns (nil, nil) for ids that are not UUIDs, since no row can
// carry them.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = $1`, entity.NormalizeEmail(email))
	return scanUser(row)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = $1)`,
		entity.NormalizeEmail(email),
	).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Add(ctx context.Context, u *entity.User) (*entity.User, error) {
	s := u.Snapshot()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+userColumns,
		s.ID, s.Email, s.FirstName, s.LastName, s.PasswordHash, s.Role,
		s.IsEmailVerified, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	saved, err := scanUser(row)
	if isUniqueViolation(err) {
		return nil, repository.ErrDuplicateEmail
	}
	return saved, err
}

// Update persists every mutable column of u. A user that no longer exists
// yields (nil, nil).
func (r *UserRepository) Update(ctx context.Context, u *entity.User) (*entity.User, error) {
	s := u.Snapshot()
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, password_hash = $5, role = $6,
			is_email_verified = $7, is_active = $8, updated_at = $9
		WHERE id = $1
		RETURNING `+userColumns,
		s.ID, s.Email, s.FirstName, s.LastName, s.PasswordHash, s.Role,
		s.IsEmailVerified, s.IsActive, s.UpdatedAt,
	)
	saved, err := scanUser(row)
	if isUniqueViolation(err) {
		return nil, repository.ErrDuplicateEmail
	}
	return saved, err
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var s entity.UserSnapshot
	err := row.Scan(&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.PasswordHash, &s.Role,
		&s.IsEmailVerified, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.CreatedAt, s.UpdatedAt = s.CreatedAt.UTC(), s.UpdatedAt.UTC()
	return entity.Restore(s), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ repository.UserRepository = (*UserRepository)(nil)
