package initializer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	infra_cache "github.com/amirasaad/ledger/infra/cache"
	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/memory"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.App {
	return &config.App{
		Env:      "test",
		Log:      &config.Log{Format: "text"},
		Store:    &config.Store{Driver: config.DriverMemory},
		DB:       &config.DB{LockTimeout: time.Second},
		Transfer: &config.Transfer{MaxAttempts: 3, RetryBackoff: time.Millisecond},
		EventBus: &config.EventBus{Driver: config.DriverMemory},
		Redis: &config.Redis{
			Stream:      "ledger.events",
			Group:       "ledger",
			DialTimeout: 200 * time.Millisecond,
			ReadTimeout: 200 * time.Millisecond,
		},
		Kafka: &config.Kafka{TopicPrefix: "ledger"},
	}
}

func TestInitialize_MemoryDefaults(t *testing.T) {
	deps, closeFn, err := initialize(testConfig(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	assert.IsType(t, &memory.UoW{}, deps.Uow)
	assert.IsType(t, &infra_eventbus.MemoryEventBus{}, deps.EventBus)
	assert.IsType(t, &infra_cache.MemoryCache{}, deps.Cache)
	assert.NotNil(t, deps.Logger)
	assert.NotNil(t, deps.Config)
}

func TestInitialize_UnsupportedStore(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = "sqlite"
	_, _, err := initialize(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitStore_PostgresWithoutURL(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = config.DriverPostgres
	cfg.DB.Url = ""
	_, _, err := initStore(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitEventBus_DefaultsToMemoryWhenNoDriver(t *testing.T) {
	cfg := testConfig()
	cfg.EventBus.Driver = ""
	bus, _, err := initEventBus(cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.EventBus.Driver = config.DriverRedis
	cfg.Redis.URL = "redis://" + mr.Addr()

	bus, closeFn, err := initEventBus(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	assert.IsType(t, &infra_eventbus.RedisEventBus{}, bus)
}

func TestInitialize_RedisSharesIdempotencyCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.EventBus.Driver = config.DriverRedis
	cfg.Redis.URL = "redis://" + mr.Addr()
	cfg.Idempotency = &config.Idempotency{TTL: time.Hour, KeyPrefix: "test:processed:"}

	deps, closeFn, err := initialize(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	require.IsType(t, &infra_cache.RedisCache{}, deps.Cache)

	require.NoError(t, deps.Cache.Set(context.Background(), "evt", time.Minute))
	assert.True(t, mr.Exists("test:processed:evt"))
}

func TestInitCache_MemoryForOtherBuses(t *testing.T) {
	c, closeFn := initCache(testConfig(), infra_eventbus.NewWithMemory(discardLogger()), discardLogger())
	t.Cleanup(func() { _ = closeFn() })
	assert.IsType(t, &infra_cache.MemoryCache{}, c)
}

func TestInitEventBus_RedisRequiresURL(t *testing.T) {
	cfg := testConfig()
	cfg.EventBus.Driver = config.DriverRedis
	cfg.Redis.URL = ""
	_, _, err := initEventBus(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitEventBus_RedisConnectionErrorFallsBackToMemory(t *testing.T) {
	cfg := testConfig()
	cfg.EventBus.Driver = config.DriverRedis
	cfg.Redis.URL = "redis://127.0.0.1:1"
	bus, _, err := initEventBus(cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_KafkaRequiresBrokers(t *testing.T) {
	cfg := testConfig()
	cfg.EventBus.Driver = config.DriverKafka
	cfg.Kafka.Brokers = nil
	_, _, err := initEventBus(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitEventBus_KafkaConnectionErrorFallsBackToMemory(t *testing.T) {
	cfg := testConfig()
	cfg.EventBus.Driver = config.DriverKafka
	cfg.Kafka.Brokers = []string{"127.0.0.1:1"}
	bus, _, err := initEventBus(cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_UnsupportedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.EventBus.Driver = "nope"
	_, _, err := initEventBus(cfg, discardLogger())
	require.Error(t, err)
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Log{Format: "json", Prefix: "[ledger]"}, &buf)
	logger.InfoContext(context.Background(), "Transfer successful", "transaction", 7)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Transfer successful"`)
	assert.Contains(t, out, `"transaction":7`)
	assert.Contains(t, out, `[ledger]`)
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Log{Format: "text", Level: 4}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
