package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halconf-generator/internal/config"
)

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "halconf.log")

	cfg := config.Default().Logging
	cfg.Output = path
	cfg.Format = "json"
	cfg.Level = "debug"

	l, err := New(cfg)
	require.NoError(t, err)

	l.Debug("generated file")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"generated file"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "halconf.log")

	cfg := config.Default().Logging
	cfg.Output = path
	cfg.Level = "warn"

	l, err := New(cfg)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestBadLevel(t *testing.T) {
	cfg := config.Default().Logging
	cfg.Level = "loud"

	_, err := New(cfg)
	require.Error(t, err)
}
