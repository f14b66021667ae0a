package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	ServerAddress string   `env:"SERVER_ADDRESS" envDefault:"0.0.0.0:8080"`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"debug"`
	LogPretty     bool     `env:"LOG_PRETTY" envDefault:"false"`
	Storage       string   `env:"STORAGE" envDefault:"postgres"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	PostgresConfig
	IdentityConfig
	CacheConfig
}

func NewConfig() (*Config, error) {
	config := &Config{}

	err := env.Parse(config)
	if err != nil {
		err = fmt.Errorf("config.NewConfig: %w", err)
	}
	return config, err
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("config.Config.Validate: unknown storage %q, should be one of: %s, %s", c.Storage, StoragePostgres, StorageMemory)
	}

	switch c.IdentityProvider {
	case IdentityLocal:
	case IdentityGoTrue:
		if c.GoTrueURL == "" {
			return fmt.Errorf("config.Config.Validate: GOTRUE_URL is required for identity provider %q", IdentityGoTrue)
		}
	default:
		return fmt.Errorf("config.Config.Validate: unknown identity provider %q, should be one of: %s, %s", c.IdentityProvider, IdentityLocal, IdentityGoTrue)
	}

	return nil
}

type PostgresConfig struct {
	Conn            string `env:"POSTGRES_CONN" envDefault:"postgres://orgadmin:orgadmin@db:5432/orgadmin?sslmode=disable"`
	AutoMigrateUp   bool   `env:"AUTO_MIGRATE_UP" envDefault:"true"`
	AutoMigrateDown bool   `env:"AUTO_MIGRATE_DOWN" envDefault:"false"`
	// Empty means the migrations embedded into the binary.
	MigrationsURL string `env:"MIGRATIONS_URL" envDefault:""`
}

func NewPostgresConfig() (*PostgresConfig, error) {
	config := &PostgresConfig{}

	err := env.Parse(config)
	if err != nil {
		err = fmt.Errorf("config.NewPostgresConfig: %w", err)
	}
	return config, err
}

const (
	IdentityLocal  = "local"
	IdentityGoTrue = "gotrue"
)

type IdentityConfig struct {
	IdentityProvider string        `env:"IDENTITY_PROVIDER" envDefault:"local"`
	GoTrueURL        string        `env:"GOTRUE_URL"`
	GoTrueAnonKey    string        `env:"GOTRUE_ANON_KEY"`
	GoTrueServiceKey string        `env:"GOTRUE_SERVICE_KEY"`
	GoTrueTimeout    time.Duration `env:"GOTRUE_TIMEOUT" envDefault:"15s"`
}

type CacheConfig struct {
	// Zero keeps entries until they are invalidated.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"0s"`
}
