package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, DriverMemory, cfg.EventBus.Driver)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, 3, cfg.Transfer.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.Transfer.RetryBackoff)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "localhost:3000", cfg.Server.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "ledger:processed:", cfg.Idempotency.KeyPrefix)
}

func TestLoad_FromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_LOCK_TIMEOUT", "750ms")
	t.Setenv("TRANSFER_MAX_ATTEMPTS", "5")
	t.Setenv("EVENT_BUS_DRIVER", "redis")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 5, cfg.Transfer.MaxAttempts)
	assert.Equal(t, DriverRedis, cfg.EventBus.Driver)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"),
		[]byte("SERVER_PORT=8088\nLOG_PREFIX=[test]\n"), 0o600))
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	chdir(t, sub)
	t.Cleanup(func() {
		os.Unsetenv("SERVER_PORT") //nolint:errcheck
		os.Unsetenv("LOG_PREFIX")  //nolint:errcheck
	})

	cfg, err := Load(".env.missing", ".env.test")
	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "[test]", cfg.Log.Prefix)
}

func TestLoad_InvalidDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Transfer.MaxAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg.Transfer.MaxAttempts = 1
	cfg.EventBus.Driver = "nats"
	assert.Error(t, cfg.Validate())
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "po****able", maskValue("postgres://u:p@h/db?sslmode=disable"))
}

func TestFindEnvTest_NotFound(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := FindEnvTest(".env.does-not-exist")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
