package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint(10), cfg.MaxRetries)
	assert.Equal(t, uint(50), cfg.RetryDelayMs)
	assert.False(t, cfg.DisableElevate)
	assert.Equal(t, 50*time.Millisecond, cfg.RetryDelay())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := decode(strings.NewReader(`
max_retries: 3
retry_delay_ms: 200
disable_elevate: true
history_db_path: /var/lib/forceops/history.db
`))
	require.NoError(t, err)
	assert.Equal(t, uint(3), cfg.MaxRetries)
	assert.Equal(t, uint(200), cfg.RetryDelayMs)
	assert.True(t, cfg.DisableElevate)
	assert.Equal(t, "/var/lib/forceops/history.db", cfg.HistoryDBPath)
}

func TestDecodeExplicitZeroRetries(t *testing.T) {
	// max_retries: 0 is a meaningful setting (single attempt) and must
	// not be swallowed by the default
	cfg, err := decode(strings.NewReader("max_retries: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, uint(0), cfg.MaxRetries)
	assert.Equal(t, uint(50), cfg.RetryDelayMs)
}

func TestDecodeEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeRejectsRelativeProtectedPath(t *testing.T) {
	_, err := decode(strings.NewReader("protected_paths:\n  - relative/path\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute")
}

func TestDecodeCleansProtectedPaths(t *testing.T) {
	sep := string(os.PathSeparator)
	raw := sep + filepath.Join("data", "keep") + sep + "." + sep
	cfg, err := decode(strings.NewReader("protected_paths:\n  - " + raw + "\n"))
	require.NoError(t, err)
	require.Len(t, cfg.ProtectedPaths, 1)
	assert.Equal(t, filepath.Clean(raw), cfg.ProtectedPaths[0])
}

func TestLoadRealFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retry_delay_ms: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint(5), cfg.RetryDelayMs)
	assert.Equal(t, uint(10), cfg.MaxRetries)
}

func TestDecodeMalformedYAML(t *testing.T) {
	_, err := decode(strings.NewReader("max_retries: [not a number\n"))
	require.Error(t, err)
}
