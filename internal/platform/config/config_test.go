package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readplan/internal/platform/config"
)

func TestNewUsesDefaultsWithoutSettingsFile(t *testing.T) {
	vault := t.TempDir()
	cfg, err := config.New(vault)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(vault, ".readplan", "readplan.db"), cfg.DBPath)
	assert.Equal(t, config.DefaultSettings().DailyCap, cfg.Settings.DailyCap)
	assert.Equal(t, 31102, cfg.Settings.DefaultTotal)
	assert.Equal(t, 365, cfg.Settings.DefaultTargetDays)
}

func TestNewMergesSettingsFileAndEnv(t *testing.T) {
	vault := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(vault, ".readplan"), 0o755))
	payload := `{"daily_cap": 50, "preview_count": 5, "map_path": "", "log_level": "warn"}`
	require.NoError(t, os.WriteFile(filepath.Join(vault, ".readplan", "settings.json"), []byte(payload), 0o644))
	t.Setenv("READPLAN_LOG_LEVEL", "debug")

	cfg, err := config.New(vault)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Settings.DailyCap)
	assert.Equal(t, 5, cfg.Settings.PreviewCount)
	assert.Equal(t, config.DefaultSettings().MapPath, cfg.Settings.MapPath, "blank paths fall back to defaults")
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
}

func TestNewRejectsMalformedSettings(t *testing.T) {
	vault := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(vault, ".readplan"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vault, ".readplan", "settings.json"), []byte("{"), 0o644))

	_, err := config.New(vault)
	require.Error(t, err)
}

func TestWriteDefaultsIsIdempotent(t *testing.T) {
	vault := t.TempDir()
	cfg, err := config.New(vault)
	require.NoError(t, err)

	created, err := config.WriteDefaults(cfg)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = config.WriteDefaults(cfg)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestNewRequiresVaultPath(t *testing.T) {
	_, err := config.New("")
	require.Error(t, err)
}
