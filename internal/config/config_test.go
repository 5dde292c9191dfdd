package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("DB_DSN", "postgres://localhost/tutor_connect")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, CacheDriverSQLite, cfg.CacheDriver)
	assert.Equal(t, "data/bookings_cache.db", cfg.CacheSQLitePath)
	assert.Equal(t, ":9091", cfg.MetricsAddr)
	assert.Equal(t, time.Hour, cfg.SlotPruneInterval)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
}

func TestLoad_FirestoreAndRedis(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("STORE_DRIVER", "firestore")
	t.Setenv("FIRESTORE_PROJECT_ID", "tutor-connect")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SLOT_PRUNE_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tutor-connect", cfg.Firestore.ProjectID)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 15*time.Minute, cfg.SlotPruneInterval)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		StoreDriver:       "mongo",
		CacheDriver:       CacheDriverSQLite,
		CacheSQLitePath:   "cache.db",
		SlotPruneInterval: time.Minute,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
	assert.Contains(t, err.Error(), `unknown STORE_DRIVER "mongo"`)

	cfg.TelegramToken = "token"
	cfg.StoreDriver = StoreDriverMemory
	assert.NoError(t, cfg.Validate())

	cfg.Timezone = "Mars/Olympus"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
