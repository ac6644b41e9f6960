package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults apply when env is empty", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, "uploads", cfg.Uploads.Dir)
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("UPLOAD_DIR", "/var/uploads")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "/var/uploads", cfg.Uploads.Dir)
	})

	t.Run("bad integer falls back to default", func(t *testing.T) {
		t.Setenv("DB_PORT", "not-a-number")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 5432, cfg.Database.Port)
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects missing port", func(t *testing.T) {
		cfg := &Config{}
		assert.Error(t, cfg.Validate())
	})

	t.Run("accepts a complete config", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost"},
			Uploads:  UploadsConfig{Dir: "uploads"},
		}
		assert.NoError(t, cfg.Validate())
	})
}
