package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2000, cfg.StageBudgetMS)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, 10, cfg.AuditSampleLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STAGE_BUDGET_MS", "500")
	t.Setenv("WORKER_COUNT", "16")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500, cfg.StageBudgetMS)
	assert.Equal(t, 16, cfg.WorkerCount)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		return cfg
	}

	t.Run("budget out of range", func(t *testing.T) {
		cfg := base()
		cfg.StageBudgetMS = 0
		assert.ErrorContains(t, cfg.Validate(), "STAGE_BUDGET_MS")
	})

	t.Run("worker count out of range", func(t *testing.T) {
		cfg := base()
		cfg.WorkerCount = 500
		assert.ErrorContains(t, cfg.Validate(), "WORKER_COUNT")
	})

	t.Run("missing audit db path", func(t *testing.T) {
		cfg := base()
		cfg.AuditDBPath = ""
		assert.ErrorContains(t, cfg.Validate(), "AUDIT_DB_PATH")
	})

	t.Run("unreadable pattern table path", func(t *testing.T) {
		cfg := base()
		cfg.PatternTablePath = filepath.Join(t.TempDir(), "absent.json")
		assert.ErrorContains(t, cfg.Validate(), "PATTERN_TABLE_PATH")
	})

	t.Run("readable pattern table path", func(t *testing.T) {
		cfg := base()
		path := filepath.Join(t.TempDir(), "rules.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
		cfg.PatternTablePath = path
		assert.NoError(t, cfg.Validate())
	})
}
