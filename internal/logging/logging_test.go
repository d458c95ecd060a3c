package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/obra-tracker/internal/model"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := New(model.LogConfig{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Info("dataset loaded")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"dataset loaded"`)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(model.LogConfig{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")})
	assert.Error(t, err)
}

func TestNewWithoutFileIsNop(t *testing.T) {
	logger, err := New(model.LogConfig{})
	require.NoError(t, err)
	logger.Info("dropped")
}
