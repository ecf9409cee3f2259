package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/handler"
	"github.com/noah-isme/gym-admin-console/internal/repository"
	"github.com/noah-isme/gym-admin-console/internal/service"
	"github.com/noah-isme/gym-admin-console/internal/session"
	"github.com/noah-isme/gym-admin-console/pkg/cache"
	"github.com/noah-isme/gym-admin-console/pkg/config"
	"github.com/noah-isme/gym-admin-console/pkg/database"
)

const purgeInterval = time.Hour

// storage is the durable state chosen by SESSION_DRIVER.
type storage struct {
	sessions session.Storage
	wizards  service.WizardRepository
	checks   map[string]handler.ReadinessCheck
	purge    func(ctx context.Context)
	closers  []func() error
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// openStorage connects the configured session driver. Redis also holds form
// snapshots; the other drivers keep them in process memory.
func openStorage(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*storage, error) {
	s := &storage{checks: map[string]handler.ReadinessCheck{}}

	switch cfg.Session.Driver {
	case config.SessionDriverMemory:
		logr.Warn("session storage is in memory; sessions will not survive a restart")
		s.sessions = session.NewMemoryStorage()
		s.wizards = service.NewMemoryWizardRepository()

	case config.SessionDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		s.sessions = repository.NewRedisSlotRepository(client, cfg.Session.TTL)
		s.wizards = repository.NewRedisWizardRepository(client, logr)
		s.checks["redis"] = redisCheck(client)

	case config.SessionDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		if err := database.Migrate(ctx, db); err != nil {
			s.close()
			return nil, err
		}
		slots := repository.NewPostgresSlotRepository(db)
		s.sessions = slots
		s.wizards = service.NewMemoryWizardRepository()
		s.checks["postgres"] = db.PingContext
		s.purge = func(ctx context.Context) { purgeSlots(ctx, slots, cfg.Session.TTL, logr) }

	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}

	return s, nil
}

func redisCheck(client *redis.Client) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// purgeSlots removes Postgres session slots older than ttl every hour.
func purgeSlots(ctx context.Context, slots *repository.PostgresSlotRepository, ttl time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := slots.PurgeBefore(ctx, now.Add(-ttl))
			if err != nil {
				logr.Warn("session slot purge failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logr.Info("purged stale session slots", zap.Int64("rows", removed))
			}
		}
	}
}
