// Package config loads the game's runtime settings from YAML or TOML, with
// environment overrides for secrets and deployment-specific values.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/gacharealm/engine/save"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/logger"
)

// Config holds every runtime setting.
type Config struct {
	Content ContentConfig `yaml:"content" toml:"content"`
	Save    SaveConfig    `yaml:"save" toml:"save"`
	Battle  BattleConfig  `yaml:"battle" toml:"battle"`
	Lore    LoreConfig    `yaml:"lore" toml:"lore"`
	Logging logger.Config `yaml:"logging" toml:"logging"`
}

// ContentConfig points at the Lua catalog. An empty Dir uses the built-in content.
type ContentConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// SaveConfig selects the persistence driver.
type SaveConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	Key    string `yaml:"key" toml:"key"`

	// Path is the save directory for the file driver and the database
	// file for the sqlite driver.
	Path string `yaml:"path" toml:"path"`

	RedisAddr     string `yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword string `yaml:"redis_password" toml:"redis_password"`
	RedisDB       int    `yaml:"redis_db" toml:"redis_db"`
	PostgresDSN   string `yaml:"postgres_dsn" toml:"postgres_dsn"`
}

// BattleConfig holds pacing and the battle policy knobs.
type BattleConfig struct {
	EnemyTurnDelayMS    int     `yaml:"enemy_turn_delay_ms" toml:"enemy_turn_delay_ms"`
	StageDelayMS        int     `yaml:"stage_delay_ms" toml:"stage_delay_ms"`
	DungeonEndDelayMS   int     `yaml:"dungeon_end_delay_ms" toml:"dungeon_end_delay_ms"`
	Seed                int64   `yaml:"seed" toml:"seed"` // 0 picks a seed from the clock
	MissChargesUltimate bool    `yaml:"miss_charges_ultimate" toml:"miss_charges_ultimate"`
	DifficultyScaling   float64 `yaml:"difficulty_scaling" toml:"difficulty_scaling"`
}

// LoreConfig configures the item lore generator.
type LoreConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	Model     string `yaml:"model" toml:"model"`
	APIKey    string `yaml:"api_key" toml:"api_key"`
	TimeoutMS int    `yaml:"timeout_ms" toml:"timeout_ms"`
	CacheSize int    `yaml:"cache_size" toml:"cache_size"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Save: SaveConfig{
			Driver:    save.DriverFile,
			Key:       save.DefaultKey,
			Path:      "saves",
			RedisAddr: "localhost:6379",
		},
		Battle: BattleConfig{
			EnemyTurnDelayMS:    1000,
			StageDelayMS:        1500,
			DungeonEndDelayMS:   2000,
			MissChargesUltimate: true,
		},
		Lore: LoreConfig{
			Enabled:   true,
			Endpoint:  "https://generativelanguage.googleapis.com/v1beta",
			Model:     "gemini-2.5-flash",
			TimeoutMS: 10000,
			CacheSize: 128,
		},
		Logging: logger.DefaultConfig(),
	}
}

// Load reads path over the defaults. A .toml extension decodes TOML,
// anything else YAML. A missing file yields the defaults. Environment
// overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, cfg); err != nil {
				return Default(), errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to parse config %s", path)
			}
		case os.IsNotExist(err):
		default:
			return Default(), errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// ApplyEnv applies environment variable overrides
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GACHAREALM_SAVE_DRIVER"); v != "" {
		c.Save.Driver = v
	}
	if v := os.Getenv("GACHAREALM_SAVE_PATH"); v != "" {
		c.Save.Path = v
	}
	if v := os.Getenv("GACHAREALM_REDIS_ADDR"); v != "" {
		c.Save.RedisAddr = v
	}
	if v := os.Getenv("GACHAREALM_POSTGRES_DSN"); v != "" {
		c.Save.PostgresDSN = v
	}
	if v := os.Getenv("GACHAREALM_LORE_API_KEY"); v != "" {
		c.Lore.APIKey = v
	}
	c.Logging.ApplyEnv()
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Save.Driver {
	case save.DriverFile, save.DriverMemory, save.DriverRedis, save.DriverSQLite, save.DriverPostgres:
	default:
		return errors.InvalidArgumentf("unknown save driver %q", c.Save.Driver)
	}
	if c.Save.Key == "" {
		return errors.InvalidArgument("save key cannot be empty")
	}
	if c.Battle.EnemyTurnDelayMS < 0 || c.Battle.StageDelayMS < 0 || c.Battle.DungeonEndDelayMS < 0 {
		return errors.InvalidArgument("battle delays cannot be negative")
	}
	if c.Battle.DifficultyScaling < 0 {
		return errors.InvalidArgument("difficulty scaling cannot be negative")
	}
	if c.Lore.CacheSize < 0 {
		return errors.InvalidArgument("lore cache size cannot be negative")
	}
	return nil
}

// SaveOptions converts the save section for save.Open.
func (c *Config) SaveOptions() save.Options {
	return save.Options{
		Driver:        c.Save.Driver,
		Path:          c.Save.Path,
		RedisAddr:     c.Save.RedisAddr,
		RedisPassword: c.Save.RedisPassword,
		RedisDB:       c.Save.RedisDB,
		PostgresDSN:   c.Save.PostgresDSN,
	}
}

// EnemyTurnDelay is the pause before the enemy acts.
func (b BattleConfig) EnemyTurnDelay() time.Duration {
	return time.Duration(b.EnemyTurnDelayMS) * time.Millisecond
}

// StageDelay is the pause between dungeon stages.
func (b BattleConfig) StageDelay() time.Duration {
	return time.Duration(b.StageDelayMS) * time.Millisecond
}

// DungeonEndDelay is the pause before a finished run is closed.
func (b BattleConfig) DungeonEndDelay() time.Duration {
	return time.Duration(b.DungeonEndDelayMS) * time.Millisecond
}

// Timeout is the per-request lore deadline.
func (l LoreConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutMS) * time.Millisecond
}
