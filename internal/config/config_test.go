package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, IdentityLocal, cfg.IdentityProvider)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.AutoMigrateUp)
	assert.Equal(t, 15*time.Second, cfg.GoTrueTimeout)
	assert.Zero(t, cfg.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("STORAGE", StorageMemory)
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("IDENTITY_PROVIDER", IdentityGoTrue)
	t.Setenv("GOTRUE_URL", "https://auth.example")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	cfg.Storage = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg.Storage = StorageMemory
	cfg.IdentityProvider = IdentityGoTrue
	cfg.GoTrueURL = ""
	assert.Error(t, cfg.Validate())

	cfg.IdentityProvider = "ldap"
	assert.Error(t, cfg.Validate())
}
