package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":4500", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 800, cfg.Map.ViewportWidth)
	assert.Equal(t, 450, cfg.Map.ViewportHeight)
	assert.True(t, cfg.Map.ClampLatitude)
	assert.Equal(t, 30*time.Minute, cfg.Map.ViewSessionTTL)
	assert.Equal(t, 10000, cfg.Map.MaxViewSessions)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  addr: \":9000\"\nmap:\n  clamp_latitude: false\n  viewport_width: 1200\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("GEOMAP_DB_DRIVER", "mysql")
	t.Setenv("GEOMAP_DB_DSN", "user:pass@tcp(127.0.0.1:3306)/geogame?parseTime=true")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.False(t, cfg.Map.ClampLatitude)
	assert.Equal(t, 1200, cfg.Map.ViewportWidth)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "geogame")
}
