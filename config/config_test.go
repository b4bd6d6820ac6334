package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/gacharealm/config"
	"github.com/nathoo/gacharealm/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Save.Driver)
	assert.Equal(t, "gacharealm:player_state", cfg.Save.Key)
	assert.Equal(t, time.Second, cfg.Battle.EnemyTurnDelay())
	assert.Equal(t, 1500*time.Millisecond, cfg.Battle.StageDelay())
	assert.Equal(t, 2*time.Second, cfg.Battle.DungeonEndDelay())
	assert.True(t, cfg.Battle.MissChargesUltimate)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "gacharealm.yaml", `
save:
  driver: sqlite
  path: data/realm.db
battle:
  enemy_turn_delay_ms: 0
  miss_charges_ultimate: false
  difficulty_scaling: 0.25
  seed: 42
logging:
  level: DEBUG
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Save.Driver)
	assert.Equal(t, "data/realm.db", cfg.Save.Path)
	assert.Equal(t, "gacharealm:player_state", cfg.Save.Key)
	assert.Equal(t, time.Duration(0), cfg.Battle.EnemyTurnDelay())
	assert.Equal(t, 1500*time.Millisecond, cfg.Battle.StageDelay())
	assert.False(t, cfg.Battle.MissChargesUltimate)
	assert.Equal(t, 0.25, cfg.Battle.DifficultyScaling)
	assert.Equal(t, int64(42), cfg.Battle.Seed)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.True(t, cfg.Logging.ConsoleEnabled)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "gacharealm.toml", `
[save]
driver = "redis"
redis_addr = "cache:6379"

[lore]
enabled = false
cache_size = 16
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Save.Driver)
	assert.Equal(t, "cache:6379", cfg.Save.RedisAddr)
	assert.False(t, cfg.Lore.Enabled)
	assert.Equal(t, 16, cfg.Lore.CacheSize)
	assert.Equal(t, "gemini-2.5-flash", cfg.Lore.Model)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GACHAREALM_SAVE_DRIVER", "postgres")
	t.Setenv("GACHAREALM_POSTGRES_DSN", "postgres://realm@db/realm")
	t.Setenv("GACHAREALM_LORE_API_KEY", "secret")
	t.Setenv("LOG_LEVEL", "ERROR")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Save.Driver)
	assert.Equal(t, "postgres://realm@db/realm", cfg.SaveOptions().PostgresDSN)
	assert.Equal(t, "secret", cfg.Lore.APIKey)
	assert.Equal(t, "ERROR", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad yaml", "bad.yaml", "save: [unterminated"},
		{"bad toml", "bad.toml", "[save\ndriver = 1"},
		{"unknown driver", "driver.yaml", "save:\n  driver: floppy\n"},
		{"negative delay", "delay.yaml", "battle:\n  stage_delay_ms: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))
			assert.Equal(t, config.Default(), cfg)
		})
	}
}
