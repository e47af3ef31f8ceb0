package main

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskmgr/internal/config"
	"github.com/gosuda/taskmgr/internal/domain"
	"github.com/gosuda/taskmgr/internal/notify"
	"github.com/gosuda/taskmgr/internal/store/memory"
	"github.com/gosuda/taskmgr/internal/store/postgres"
	redisstore "github.com/gosuda/taskmgr/internal/store/redis"
	"github.com/gosuda/taskmgr/internal/store/sqlite"
	"github.com/gosuda/taskmgr/internal/task"
)

// app holds the wired service and everything that must be closed with it.
type app struct {
	tasks      *task.Service
	dispatcher *notify.Dispatcher
	pubsub     *redisstore.PubSub // nil when Redis is not configured
	closers    []func()
}

// buildApp opens the configured store and, when withBrokers is set, connects
// the Redis and AMQP event sinks.
func buildApp(ctx context.Context, cfg *config.Config, withBrokers bool) (*app, error) {
	a := &app{dispatcher: notify.NewDispatcher(notify.DefaultBreakerConfig())}

	repo, err := a.openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.dispatcher.Register("log", notify.NewLogSink(log.Logger))

	if withBrokers {
		if err := a.connectBrokers(ctx, cfg); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.tasks = task.NewService(repo, a.dispatcher, task.Options{BlockedGuard: cfg.Tasks.BlockedGuard})
	return a, nil
}

func (a *app) openRepository(ctx context.Context, cfg *config.Config) (domain.TaskRepository, error) {
	switch cfg.Store {
	case config.StorePostgres:
		if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
			return nil, fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
		}

		store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store.Tasks(), nil

	case config.StoreSQLite:
		store, err := sqlite.New(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		return store.Tasks(), nil

	default:
		return memory.NewTaskRepo(), nil
	}
}

func (a *app) connectBrokers(ctx context.Context, cfg *config.Config) error {
	if cfg.Redis.Enabled() {
		pubsub, err := redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		a.pubsub = pubsub
		a.closers = append(a.closers, func() { _ = pubsub.Close() })
		a.dispatcher.Register("redis", redisstore.NewEventSink(pubsub))
	}

	if cfg.AMQP.Enabled() {
		pub, err := notify.DialAMQP(cfg.AMQP.URL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = pub.Close() })
		a.dispatcher.Register("amqp", notify.NewAMQPSink(pub))
	}

	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
