package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("missing store url", func(t *testing.T) {
		t.Setenv("STORE_URL", "")
		t.Setenv("STORE_API_KEY", "anon")

		_, err := FromEnv()

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
	})

	t.Run("empty api key", func(t *testing.T) {
		t.Setenv("STORE_URL", "https://example.supabase.co")
		t.Setenv("STORE_API_KEY", "  ")

		_, err := FromEnv()

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "STORE_API_KEY", cfgErr.Key)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("STORE_URL", "postgres://localhost/market")
		t.Setenv("STORE_API_KEY", "secret")

		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, "stocks", cfg.StoreTable)
		assert.Equal(t, 100, cfg.DefaultLimit)
		assert.Equal(t, 1000, cfg.MaxLimit)
		assert.Equal(t, "8000", cfg.APIPort)
		assert.True(t, cfg.Development())
	})

	t.Run("max limit below default", func(t *testing.T) {
		t.Setenv("STORE_URL", "postgres://localhost/market")
		t.Setenv("STORE_API_KEY", "secret")
		t.Setenv("MAX_LIMIT", "10")

		_, err := FromEnv()

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "MAX_LIMIT", cfgErr.Key)
	})
}
