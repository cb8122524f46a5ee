package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-service/config"
	"github.com/oksasatya/go-auth-service/internal/application"
	pginfra "github.com/oksasatya/go-auth-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-auth-service/internal/router"
	"github.com/oksasatya/go-auth-service/pkg/helpers"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Seeds one demo account through the regular registration flow.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), MaxConns: 2})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	// No cache, queue or audit sink: seeding is not a user action.
	svc := router.BuildAuthService(router.Deps{Cfg: cfg, Logger: logger, Pool: pool})

	email := getenv("SEED_EMAIL", "demo@example.com")
	session, err := svc.Register(ctx, application.RegisterInput{
		Email:     email,
		FirstName: "Demo",
		LastName:  "User",
		Password:  getenv("SEED_PASSWORD", "password123"),
	})
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		logger.WithField("email", email).Info("demo user already seeded")
	case err != nil:
		logger.WithError(err).Fatal("failed to seed user")
	default:
		logger.WithFields(logrus.Fields{"user_id": session.User.ID, "email": session.User.Email}).Info("seeded demo user")
	}
}
