package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-auth-service/internal/domain/repository"
	"github.com/oksasatya/go-auth-service/pkg/helpers"
)

const (
	idKeyPrefix    = "user:id:"
	emailKeyPrefix = "user:email:"
)

// CachedUserRepository decorates a UserRepository with a Redis read-through
// cache of user snapshots.
//   - Read path: Redis -> inner -> Redis set
//   - Write path: inner -> Redis set (best effort)
//
// Redis failures never fail a call. EmailExists always asks inner so that
// availability checks see the source of truth.
type CachedUserRepository struct {
	inner  repository.UserRepository
	rdb    goredis.Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachedUserRepository(inner repository.UserRepository, rdb goredis.Cmdable, ttl time.Duration, logger *logrus.Logger) *CachedUserRepository {
	return &CachedUserRepository{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func idKey(id string) string       { return idKeyPrefix + id }
func emailKey(email string) string { return emailKeyPrefix + entity.NormalizeEmail(email) }

func (c *CachedUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if u := c.cachedByID(ctx, id); u != nil {
		return u, nil
	}
	u, err := c.inner.GetByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	c.store(ctx, u)
	return u, nil
}

func (c *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if c.rdb != nil {
		id, err := c.rdb.Get(ctx, emailKey(email)).Result()
		switch {
		case err == nil:
			// the email may have moved to another account since the key was set
			if u := c.cachedByID(ctx, id); u != nil && u.Email() == entity.NormalizeEmail(email) {
				return u, nil
			}
		case !errors.Is(err, goredis.Nil):
			c.warn(err, "cache read failed")
		}
	}
	u, err := c.inner.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return u, err
	}
	c.store(ctx, u)
	return u, nil
}

func (c *CachedUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return c.inner.EmailExists(ctx, email)
}

func (c *CachedUserRepository) Add(ctx context.Context, u *entity.User) (*entity.User, error) {
	saved, err := c.inner.Add(ctx, u)
	if err != nil || saved == nil {
		return saved, err
	}
	c.store(ctx, saved)
	return saved, nil
}

func (c *CachedUserRepository) Update(ctx context.Context, u *entity.User) (*entity.User, error) {
	saved, err := c.inner.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		c.evict(ctx, u)
		return nil, nil
	}
	c.store(ctx, saved)
	return saved, nil
}

func (c *CachedUserRepository) cachedByID(ctx context.Context, id string) *entity.User {
	if c.rdb == nil {
		return nil
	}
	var snap entity.UserSnapshot
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, idKey(id), &snap)
	if err != nil {
		c.warn(err, "cache read failed")
		return nil
	}
	if !ok || snap.ID != id {
		return nil
	}
	return entity.Restore(snap)
}

func (c *CachedUserRepository) store(ctx context.Context, u *entity.User) {
	if c.rdb == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, c.rdb, idKey(u.ID()), u.Snapshot(), c.ttl); err != nil {
		c.warn(err, "cache write failed")
		return
	}
	if err := c.rdb.Set(ctx, emailKey(u.Email()), u.ID(), c.ttl).Err(); err != nil {
		c.warn(err, "cache write failed")
	}
}

func (c *CachedUserRepository) evict(ctx context.Context, u *entity.User) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, idKey(u.ID()), emailKey(u.Email())).Err(); err != nil {
		c.warn(err, "cache evict failed")
	}
}

func (c *CachedUserRepository) warn(err error, msg string) {
	if c.logger != nil {
		c.logger.WithError(err).Warn(msg)
	}
}

var _ repository.UserRepository = (*CachedUserRepository)(nil)
