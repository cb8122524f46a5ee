package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oksasatya/go-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-auth-service/internal/domain/repository"
)

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	if _, err := testcontainers.NewDockerClientWithOpts(ctx); err != nil {
		t.Skipf("Docker not available: %v", err)
	}

	container, err := tcpostgres.Run(ctx, "postgres:17",
		tcpostgres.WithDatabase("authdb"),
		tcpostgres.WithUsername("auth"),
		tcpostgres.WithPassword("auth"),
		tcpostgres.WithInitScripts("../../../db/migrations/000001_create_users.up.sql"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := NewPool(ctx, PoolConfig{DSN: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewUserRepository(pool)
}

func newUser(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := entity.NewUser(email, "Ada", "Lovelace", "$2a$04$hash", entity.DefaultRole)
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	t.Run("add and lookup", func(t *testing.T) {
		u := newUser(t, "ada@x.com")
		saved, err := r.Add(ctx, u)
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, u.ID(), saved.ID())

		byID, err := r.GetByID(ctx, u.ID())
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "ada@x.com", byID.Email())
		assert.Equal(t, "$2a$04$hash", byID.PasswordHash())
		assert.True(t, byID.IsActive())

		byEmail, err := r.GetByEmail(ctx, " ADA@x.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, u.ID(), byEmail.ID())

		exists, err := r.EmailExists(ctx, "Ada@X.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("absence is not an error", func(t *testing.T) {
		u, err := r.GetByID(ctx, uuid.NewString())
		assert.NoError(t, err)
		assert.Nil(t, u)

		u, err = r.GetByID(ctx, "not-a-uuid")
		assert.NoError(t, err)
		assert.Nil(t, u)

		u, err = r.GetByEmail(ctx, "ghost@x.com")
		assert.NoError(t, err)
		assert.Nil(t, u)

		exists, err := r.EmailExists(ctx, "ghost@x.com")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := r.Add(ctx, newUser(t, "dup@x.com"))
		require.NoError(t, err)

		_, err = r.Add(ctx, newUser(t, "DUP@x.com"))
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	t.Run("update", func(t *testing.T) {
		u := newUser(t, "upd@x.com")
		_, err := r.Add(ctx, u)
		require.NoError(t, err)

		u.RecordLogin()
		u.Deactivate()
		saved, err := r.Update(ctx, u)
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.False(t, saved.IsActive())
		assert.WithinDuration(t, u.UpdatedAt(), saved.UpdatedAt(), time.Millisecond)

		missing, err := r.Update(ctx, newUser(t, "never@x.com"))
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})
}
