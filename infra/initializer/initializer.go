// Package initializer builds the logger, account store, event bus and
// idempotency cache selected by configuration.
package initializer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledger/infra"
	infra_cache "github.com/amirasaad/ledger/infra/cache"
	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/memory"
	infra_repository "github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/internal/migrations"
	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/repository"
)

// CloseFunc releases resources opened by InitializeDependencies.
type CloseFunc func() error

// InitializeDependencies initializes all the application dependencies.
func InitializeDependencies(cfg *config.App) (deps config.Deps, closeFn CloseFunc, err error) {
	logger := setupLogger(cfg.Log)
	return initialize(cfg, logger)
}

func initialize(cfg *config.App, logger *slog.Logger) (deps config.Deps, closeFn CloseFunc, err error) {
	deps = config.Deps{Logger: logger, Config: cfg}
	var closers []CloseFunc
	closeFn = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	defer func() {
		if err != nil {
			_ = closeFn()
		}
	}()

	uow, closeStore, err := initStore(cfg, logger)
	if err != nil {
		return deps, closeFn, fmt.Errorf("failed to initialize account store: %w", err)
	}
	closers = append(closers, closeStore)
	deps.Uow = uow

	bus, closeBus, err := initEventBus(cfg, logger)
	if err != nil {
		return deps, closeFn, fmt.Errorf("failed to initialize event bus: %w", err)
	}
	closers = append(closers, closeBus)
	deps.EventBus = bus

	keys, closeCache := initCache(cfg, bus, logger)
	closers = append(closers, closeCache)
	deps.Cache = keys

	return deps, closeFn, nil
}

func initStore(cfg *config.App, logger *slog.Logger) (repository.UnitOfWork, CloseFunc, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.NewStore(
			memory.WithLockTimeout(cfg.DB.LockTimeout),
			memory.WithLogger(logger),
		)
		logger.Info("Using embedded account store", "lock_timeout", cfg.DB.LockTimeout)
		return memory.NewUoW(store), noop, nil

	case config.DriverPostgres:
		db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
		if err != nil {
			logger.Error("Failed to initialize database", "error", err)
			return nil, noop, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, err
		}
		if cfg.DB.Migrate {
			if err := migrations.Up(sqlDB, logger); err != nil {
				_ = sqlDB.Close()
				return nil, noop, err
			}
		}
		logger.Info("Using PostgreSQL account store", "lock_timeout", cfg.DB.LockTimeout)
		return infra_repository.NewUoW(db, infra_repository.WithLockTimeout(cfg.DB.LockTimeout)), sqlDB.Close, nil

	default:
		return nil, noop, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, CloseFunc, error) {
	noop := func() error { return nil }
	driver := config.DriverMemory
	if cfg.EventBus != nil && cfg.EventBus.Driver != "" {
		driver = cfg.EventBus.Driver
	}

	switch driver {
	case config.DriverMemory:
		logger.Info("Using in-memory event bus")
		return infra_eventbus.NewWithMemory(logger), noop, nil

	case config.DriverRedis:
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, noop, errors.New("redis event bus selected but REDIS_URL is empty")
		}
		bus, err := infra_eventbus.NewWithRedis(cfg.Redis, account.EventTypes, logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to in-memory bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), noop, nil
		}
		logger.Info("Using Redis event bus", "stream", cfg.Redis.Stream, "group", cfg.Redis.Group)
		return bus, bus.Close, nil

	case config.DriverKafka:
		if cfg.Kafka == nil || len(cfg.Kafka.Brokers) == 0 {
			return nil, noop, errors.New("kafka event bus selected but KAFKA_BROKERS is empty")
		}
		bus, err := infra_eventbus.NewWithKafka(cfg.Kafka, account.EventTypes, logger)
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to in-memory bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), noop, nil
		}
		return bus, bus.Close, nil

	default:
		return nil, noop, fmt.Errorf("unsupported event bus driver %q", driver)
	}
}

// initCache shares processed event keys through Redis when events travel
// over Redis Streams, and keeps them in process otherwise.
func initCache(cfg *config.App, bus eventbus.Bus, logger *slog.Logger) (cache.KeyStore, CloseFunc) {
	prefix := "ledger:processed:"
	if cfg.Idempotency != nil && cfg.Idempotency.KeyPrefix != "" {
		prefix = cfg.Idempotency.KeyPrefix
	}
	if _, ok := bus.(*infra_eventbus.RedisEventBus); ok {
		c, err := infra_cache.NewRedisCacheFromURL(cfg.Redis.URL, prefix, logger)
		if err == nil {
			logger.Info("Using Redis idempotency cache", "prefix", prefix)
			return c, c.Close
		}
		logger.Warn("Redis idempotency cache unavailable, falling back to in-memory cache", "error", err)
	}
	c := infra_cache.NewMemoryCache(0)
	logger.Info("Using in-memory idempotency cache")
	return c, c.Close
}
