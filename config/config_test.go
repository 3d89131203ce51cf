package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Memory driver needs no database", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "MEMORY")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("GIN_MODE", "debug")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("CORS_ORIGINS", "https://a.example/, https://b.example ,")
		t.Setenv("JWT_EXPIRY", "2h")
		t.Setenv("RECRUITERS_MANAGE_USERS", "false")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
		assert.Equal(t, devJWTSecret, cfg.JWTSecret)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
		assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
		assert.False(t, cfg.RecruitersManageUsers)
	})

	t.Run("Postgres driver requires a database URL", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("Release mode requires a JWT secret", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "memory")
		t.Setenv("GIN_MODE", "release")
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("Unknown drivers are rejected", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("Malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "memory")
		t.Setenv("GIN_MODE", "debug")
		t.Setenv("RATE_LIMIT_AUTH_THRESHOLD", "lots")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.RateLimitAuthThreshold)
	})
}
