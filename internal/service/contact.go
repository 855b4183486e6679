package service

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/jobboard/cache"
	"github.com/ncobase/jobboard/internal/data/repository"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
)

const defaultContactTTL = 10 * time.Minute

// contactBook resolves user contact cards, read through the redis cache.
type contactBook struct {
	users  repository.UserRepository
	cache  *cache.Cache[structs.Contact]
	logger *logger.Logger
}

func newContactBook(d Deps) *contactBook {
	ttl := d.CacheTTL
	if ttl <= 0 {
		ttl = defaultContactTTL
	}
	return &contactBook{
		users:  d.Data.Users,
		cache:  cache.NewCache[structs.Contact](d.Data.Redis, "jobboard:contact", ttl),
		logger: d.Logger,
	}
}

func (b *contactBook) get(ctx context.Context, userID string) (*structs.Contact, error) {
	c, err := b.cache.Get(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		b.logger.Warn(ctx, "contact cache read failed", "user_id", userID, "error", err)
	}

	u, err := b.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	contact := u.Contact()
	if err := b.cache.Set(ctx, userID, &contact); err != nil {
		b.logger.Warn(ctx, "contact cache write failed", "user_id", userID, "error", err)
	}
	return &contact, nil
}

func (b *contactBook) forget(ctx context.Context, userID string) {
	if err := b.cache.Delete(ctx, userID); err != nil {
		b.logger.Warn(ctx, "contact cache delete failed", "user_id", userID, "error", err)
	}
}
