// Package data wires the storage backends behind the repositories.
package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/jobboard/config"
	"github.com/ncobase/jobboard/internal/data/repository"
	"github.com/ncobase/jobboard/internal/event"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Data encapsulates all data layer dependencies.
type Data struct {
	client *mongo.Client
	db     *mongo.Database
	// Redis is nil when no redis address is configured.
	Redis redis.UniversalClient

	Jobs          repository.JobRepository
	Applications  repository.ApplicationRepository
	Notifications repository.NotificationRepository
	Users         repository.UserRepository
	Events        event.Store

	indexers []repository.Indexer
	logger   *logger.Logger
}

// New connects the configured backends.
func New(ctx context.Context, c *config.Data, logger *logger.Logger) (*Data, error) {
	d := &Data{logger: logger}

	switch c.Driver {
	case config.DriverMemory:
		d.useMemory()
		logger.Warn(ctx, "using in-memory data driver, data is lost on restart")
	case config.DriverMongo, "":
		if err := d.connectMongo(ctx, c.MongoDB); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported data driver %q", c.Driver)
	}

	if c.Redis != nil && c.Redis.Addr != "" {
		rc := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx).Err(); err != nil {
			// the cache is optional
			logger.Warn(ctx, "redis unavailable, caching disabled", "addr", c.Redis.Addr, "error", err)
			_ = rc.Close()
		} else {
			d.Redis = rc
			logger.Info(ctx, "connected to redis", "addr", c.Redis.Addr)
		}
	}
	return d, nil
}

// NewMemory returns Data backed by the in-memory repositories.
func NewMemory(logger *logger.Logger) *Data {
	d := &Data{logger: logger}
	d.useMemory()
	return d
}

func (d *Data) useMemory() {
	d.Jobs = repository.NewMemoryJobRepository()
	d.Applications = repository.NewMemoryApplicationRepository()
	d.Notifications = repository.NewMemoryNotificationRepository()
	d.Users = repository.NewMemoryUserRepository()
	d.Events = event.NewMemoryStore()
}

func (d *Data) connectMongo(ctx context.Context, c *config.MongoDB) error {
	if c == nil || c.URI == "" {
		return errors.New("mongodb uri is required")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(c.URI).SetTimeout(timeout))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	d.logger.Info(ctx, "connected to MongoDB", "database", c.Database)

	db := client.Database(c.Database)
	events, err := event.NewMongoStore(db.Collection("events"), d.logger)
	if err != nil {
		return err
	}

	d.client = client
	d.db = db
	d.Jobs = repository.NewJobRepository(db, d.logger)
	d.Applications = repository.NewApplicationRepository(db, d.logger)
	d.Notifications = repository.NewNotificationRepository(db, d.logger)
	d.Users = repository.NewUserRepository(db, d.logger)
	d.Events = events
	d.indexers = []repository.Indexer{
		d.Jobs.(repository.Indexer),
		d.Applications.(repository.Indexer),
		d.Notifications.(repository.Indexer),
		d.Users.(repository.Indexer),
		events,
	}
	return nil
}

// EnsureIndexes creates every index the repositories rely on.
// It is a no-op for the in-memory driver.
func (d *Data) EnsureIndexes(ctx context.Context) error {
	for _, ix := range d.indexers {
		if err := ix.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks the primary database.
func (d *Data) Ping(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Ping(ctx, nil)
}

// Close closes the connections.
func (d *Data) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	if d.client != nil {
		errs = append(errs, d.client.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
