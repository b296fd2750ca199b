package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credvault/credvault/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:      "localhost",
		ServerPort:      8080,
		DBDriver:        "postgres",
		LogLevel:        "info",
		AuthTokenSecret: "test-secret",
	}
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig()
	container := NewContainer(cfg)

	assert.NotNil(t, container)
	assert.Equal(t, cfg, container.Config())
	assert.NotNil(t, container.initErrors)
}

func TestContainer_Logger(t *testing.T) {
	t.Run("ReturnsLogger", func(t *testing.T) {
		container := NewContainer(testConfig())
		logger := container.Logger()
		assert.NotNil(t, logger)
	})

	t.Run("ReturnsSameInstance", func(t *testing.T) {
		container := NewContainer(testConfig())
		assert.Same(t, container.Logger(), container.Logger())
	})

	t.Run("HandlesAllLogLevels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
			cfg := testConfig()
			cfg.LogLevel = level
			container := NewContainer(cfg)
			assert.NotNil(t, container.Logger(), "level %q", level)
		}
	})
}

func TestContainer_Services(t *testing.T) {
	container := NewContainer(testConfig())

	t.Run("KMSService", func(t *testing.T) {
		assert.NotNil(t, container.KMSService())
	})

	t.Run("AEADManager", func(t *testing.T) {
		assert.NotNil(t, container.AEADManager())
		assert.Same(t, container.AEADManager(), container.AEADManager())
	})

	t.Run("KeyManager", func(t *testing.T) {
		assert.NotNil(t, container.KeyManager())
	})

	t.Run("PasswordService", func(t *testing.T) {
		passwordService, err := container.PasswordService()
		require.NoError(t, err)
		assert.NotNil(t, passwordService)
	})

	t.Run("TokenService", func(t *testing.T) {
		tokenService, err := container.TokenService()
		require.NoError(t, err)
		assert.NotNil(t, tokenService)
	})
}

func TestContainer_TokenServiceRequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.AuthTokenSecret = ""
	container := NewContainer(cfg)

	tokenService, err := container.TokenService()
	assert.Error(t, err)
	assert.Nil(t, tokenService)

	// The error is cached for subsequent calls.
	tokenService, err = container.TokenService()
	assert.Error(t, err)
	assert.Nil(t, tokenService)
}

func TestContainer_UnsupportedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DBDriver = "sqlite"
	container := NewContainer(cfg)

	db, err := container.DB()
	assert.Error(t, err)
	assert.Nil(t, db)

	// Dependent components surface the same failure.
	repo, err := container.UserRepository()
	assert.Error(t, err)
	assert.Nil(t, repo)
}

func TestContainer_Shutdown(t *testing.T) {
	t.Run("NothingInitialized", func(t *testing.T) {
		container := NewContainer(testConfig())
		err := container.Shutdown(context.Background())
		assert.NoError(t, err)
	})

	t.Run("LoggerOnly", func(t *testing.T) {
		container := NewContainer(testConfig())
		_ = container.Logger()
		err := container.Shutdown(context.Background())
		assert.NoError(t, err)
	})
}
