package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setStoreEnv(t *testing.T, status int) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= http.StatusBadRequest {
			_, _ = w.Write([]byte(`{"message": "relation \"stocks\" does not exist", "code": "42P01"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("STORE_URL", srv.URL)
	t.Setenv("STORE_API_KEY", "anon-key")
	t.Setenv("REDIS_URL", "")
}

func TestCheckHealth(t *testing.T) {
	setStoreEnv(t, http.StatusOK)
	assert.NoError(t, checkHealth(context.Background()))
}

func TestCheckHealthStoreDown(t *testing.T) {
	setStoreEnv(t, http.StatusNotFound)

	err := checkHealth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "banco")
}

func TestCheckHealthRedisInvalid(t *testing.T) {
	setStoreEnv(t, http.StatusOK)
	t.Setenv("REDIS_URL", "not-a-redis-url")

	err := checkHealth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
	assert.NotContains(t, err.Error(), "banco")
}

func TestDecimalOrDash(t *testing.T) {
	assert.Equal(t, "-", decimalOrDash(decimal.NullDecimal{}, "%"))
	assert.Equal(t, "1.50%", decimalOrDash(decimal.NewNullDecimal(decimal.RequireFromString("1.5")), "%"))
}
