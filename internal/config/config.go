package config

import (
	"errors"
	"fmt"
	"log"
	"time"
	_ "time/tzdata" // база часовых поясов для минимальных образов

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Драйверы каталога
const (
	StoreDriverPostgres  = "postgres"
	StoreDriverFirestore = "firestore"
	StoreDriverMemory    = "memory"
)

// Драйверы локального кэша
const (
	CacheDriverSQLite = "sqlite"
	CacheDriverRedis  = "redis"
)

type Config struct {
	Environment   string `env:"ENV" env-default:"development"`
	TelegramToken string `env:"TELEGRAM_TOKEN"`

	StoreDriver string `env:"STORE_DRIVER" env-default:"postgres"`
	DBDSN       string `env:"DB_DSN"`
	Firestore   FirestoreConnection

	CacheDriver     string `env:"CACHE_DRIVER" env-default:"sqlite"`
	CacheSQLitePath string `env:"CACHE_SQLITE_PATH" env-default:"data/bookings_cache.db"`
	Redis           RedisConnection

	MetricsAddr       string        `env:"METRICS_ADDR" env-default:":9091"`
	SlotPruneInterval time.Duration `env:"SLOT_PRUNE_INTERVAL" env-default:"1h"`

	// Часовой пояс, в котором вводятся и показываются слоты
	Timezone string `env:"TIMEZONE" env-default:"Europe/Moscow"`
}

// FirestoreConnection настройки управляемой документной БД
type FirestoreConnection struct {
	ProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	CredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`
}

// RedisConnection настройки кэша в Redis
type RedisConnection struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные поля выбранных драйверов
func (c *Config) Validate() error {
	var errs []error

	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required but not set"))
	}

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for postgres store"))
		}
	case StoreDriverFirestore:
		if c.Firestore.ProjectID == "" {
			errs = append(errs, errors.New("FIRESTORE_PROJECT_ID is required for firestore store"))
		}
	case StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.CacheDriver {
	case CacheDriverSQLite:
		if c.CacheSQLitePath == "" {
			errs = append(errs, errors.New("CACHE_SQLITE_PATH is required for sqlite cache"))
		}
	case CacheDriverRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver))
	}

	if c.SlotPruneInterval <= 0 {
		errs = append(errs, errors.New("SLOT_PRUNE_INTERVAL must be positive"))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err))
	}

	return errors.Join(errs...)
}

// Location часовой пояс слотов. Validate гарантирует, что он загружается
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
