package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
)

func TestNew(t *testing.T) {
	type Config struct {
		Log      config.Log
		HTTP     config.HTTP
		Upload   config.Upload
		Storage  config.Storage
		Postgres config.Postgres
		Mongo    config.Mongo
	}

	t.Run("Should apply defaults", func(t *testing.T) {
		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
		assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
		assert.Equal(t, uint32(5000), cfg.HTTP.Port)
		assert.Equal(t, "/api/v1", cfg.HTTP.APIPrefix)
		assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.AllowedOrigins)
		assert.Equal(t, "uploads", cfg.Upload.Dir)
		assert.Equal(t, config.StorageDriverPostgres, cfg.Storage.Driver)
		assert.Equal(t, 30*time.Minute, cfg.Postgres.MaxConnIdleTime)
		assert.Equal(t, "catalog", cfg.Mongo.Database)
	})

	t.Run("Should read overrides from environment", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "text")
		t.Setenv("STORAGE_DRIVER", "mongodb")
		t.Setenv("HTTP_ALLOWED_ORIGINS", "http://localhost:5173,https://frontend-site.com")
		t.Setenv("MONGO_URI", "mongodb://mongo:27017")

		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.LogFormatText, cfg.Log.Format)
		assert.Equal(t, config.StorageDriverMongo, cfg.Storage.Driver)
		assert.Equal(t, []string{"http://localhost:5173", "https://frontend-site.com"}, cfg.HTTP.AllowedOrigins)
		assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	})

	t.Run("Should fail on unknown storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")

		_, err := config.New[Config]()
		assert.Error(t, err)
	})
}
