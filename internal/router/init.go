package router

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-service/config"
	"github.com/oksasatya/go-auth-service/internal/application"
	repouser "github.com/oksasatya/go-auth-service/internal/domain/repository"
	esinfra "github.com/oksasatya/go-auth-service/internal/infrastructure/elasticsearch"
	pginfra "github.com/oksasatya/go-auth-service/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/go-auth-service/internal/infrastructure/redis"
	handlers "github.com/oksasatya/go-auth-service/internal/interface/http"
	"github.com/oksasatya/go-auth-service/internal/router/modules"
	"github.com/oksasatya/go-auth-service/pkg/helpers"
)

// Deps carries the infrastructure built by main. Redis, Jobs and ES are
// optional; a nil value disables the component that needs it.
type Deps struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Jobs   application.JobPublisher
	ES     *elasticsearch.Client
}

// BuildUserRepository returns the postgres repository, behind the Redis
// cache when a client is configured.
func BuildUserRepository(d Deps) repouser.UserRepository {
	var r repouser.UserRepository = pginfra.NewUserRepository(d.Pool)
	if d.Redis != nil {
		r = redisinfra.NewCachedUserRepository(r, d.Redis, d.Cfg.UserCacheTTL, d.Logger)
	}
	return r
}

// BuildAuthService wires the authentication service and its side effects.
func BuildAuthService(d Deps) *application.AuthService {
	var notifier application.Notifier
	if d.Jobs != nil && d.Cfg.MailSendEnabled {
		notifier = application.NewEmailNotifier(d.Jobs, d.Cfg.AppName, d.Cfg.BaseURL, d.Logger)
	}
	var audit application.AuditSink
	if d.ES != nil {
		audit = esinfra.NewAuditSink(d.ES, d.Cfg.ESAuditIndex)
	}
	return application.NewAuthService(
		BuildUserRepository(d),
		helpers.NewBcryptHasher(d.Cfg.BcryptCost),
		helpers.NewJWTManager(d.Cfg.JWTSecret, d.Cfg.JWTIssuer, d.Cfg.JWTAudience, d.Cfg.AccessTTL),
		notifier,
		audit,
		d.Logger,
	)
}

// InitModules builds every module from d and registers it with r.
// Call once during startup.
func InitModules(r *Registry, d Deps) {
	svc := BuildAuthService(d)
	cookies := helpers.NewCookieManager(d.Cfg.CookieDomain, d.Cfg.CookieSecure)

	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(d.Cfg.AppName)))
	if d.Cfg.MetricsEnabled {
		r.AddRoot(modules.NewMetricsModule())
	}
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc, cookies, d.Logger)))
}
