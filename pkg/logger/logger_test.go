package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.log")

	require.NoError(t, Init("debug", false, path))
	Info("snapshot consultado", zap.Int("rows", 3))
	Debug("detalhe de depuração")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "snapshot consultado")
	assert.Contains(t, string(data), "detalhe de depuração")
}

func TestRequestIDContext(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.NotNil(t, WithContext(ctx))
}
