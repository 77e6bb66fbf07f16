package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "amzone.json", cfg.Store.Path)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "stream:catalog_events", cfg.Redis.Stream)
	assert.Equal(t, 5*time.Second, cfg.Redis.RelayPollInterval)
	assert.Equal(t, 100, cfg.Redis.RelayBatchSize)
	assert.Equal(t, 30, cfg.Scraper.FetchTimeoutSeconds)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_PATH", "/tmp/test.json")
	t.Setenv("JWT_SECRET", "override-secret")
	t.Setenv("RELAY_BATCH_SIZE", "25")
	t.Setenv("SCRAPER_TIMEOUT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.json", cfg.Store.Path)
	assert.Equal(t, "override-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 25, cfg.Redis.RelayBatchSize)
	// Unparseable values fall back to the default
	assert.Equal(t, 30, cfg.Scraper.FetchTimeoutSeconds)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  Server{Port: 8080},
			Store:   Store{Path: "amzone.json"},
			Auth:    Auth{JWTSecret: "s", AdminEmail: "a@b.com"},
			Scraper: Scraper{FetchTimeoutSeconds: 30},
		}
	}

	require.NoError(t, valid().Validate())

	t.Run("bad port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing store path", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing admin email", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.AdminEmail = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero scraper timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Scraper.FetchTimeoutSeconds = 0
		assert.Error(t, cfg.Validate())
	})
}
