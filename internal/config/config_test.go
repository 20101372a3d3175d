package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "input", cfg.InputDir)
	assert.Equal(t, "berthdictionary.csv", cfg.BerthDictionary)
	assert.Equal(t, "manifest.csv", cfg.Manifest)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, 4, cfg.DateToleranceDays)
	assert.Equal(t, "SWP Cross", cfg.SpecialZoneLabel)
	assert.Equal(t, 30*time.Minute, cfg.BatchTimeout)
	assert.Equal(t, 1000, cfg.TimeoutCheckRows)
	assert.Contains(t, cfg.ExcludedVesselNames, "dixie raider")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Minute, cfg.WatchInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RIVERCALL_DATE_TOLERANCE_DAYS", "2")
	t.Setenv("RIVERCALL_SPECIAL_ZONE_LABEL", "Canal Cross")
	t.Setenv("RIVERCALL_BATCH_TIMEOUT", "10m")
	t.Setenv("RIVERCALL_LOG_FORMAT", "text")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.DateToleranceDays)
	assert.Equal(t, "Canal Cross", cfg.SpecialZoneLabel)
	assert.Equal(t, 10*time.Minute, cfg.BatchTimeout)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rivercall.yaml")
	content := []byte("date_tolerance_days: 7\nexcluded_vessel_names:\n  - test barge\noutput_dir: /tmp/out\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.DateToleranceDays)
	assert.Equal(t, []string{"test barge"}, cfg.ExcludedVesselNames)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	// Untouched keys keep their defaults.
	assert.Equal(t, "SWP Cross", cfg.SpecialZoneLabel)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("negative tolerance", func(t *testing.T) {
		t.Setenv("RIVERCALL_DATE_TOLERANCE_DAYS", "-1")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "date_tolerance_days")
	})

	t.Run("bad log format", func(t *testing.T) {
		t.Setenv("RIVERCALL_LOG_FORMAT", "xml")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log_format")
	})

	t.Run("missing config file is an error when named explicitly", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
