package main

import (
	"context"

	"github.com/nathoo/gacharealm/config"
	"github.com/nathoo/gacharealm/content"
	"github.com/nathoo/gacharealm/engine"
	"github.com/nathoo/gacharealm/engine/battle"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/loader"
	"github.com/nathoo/gacharealm/logger"
	"github.com/nathoo/gacharealm/lore"
)

// setup loads the config and starts logging. The console handler is
// dropped when the terminal belongs to the TUI.
func setup(quietConsole bool) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logCfg := cfg.Logging
	if quietConsole {
		logCfg.ConsoleEnabled = false
	}
	if err := logger.Initialize(logCfg); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	return cfg, nil
}

// loadCatalog compiles dir, or the embedded content when dir is empty.
func loadCatalog(dir string) (*state.Catalog, []string, error) {
	if dir == "" {
		return loader.LoadFS(content.FS)
	}
	return loader.Load(dir)
}

// engineOptions maps the battle and save settings onto the engine.
func engineOptions(cfg *config.Config) engine.Options {
	opts := engine.DefaultOptions()
	opts.EnemyTurnDelay = cfg.Battle.EnemyTurnDelay()
	opts.StageDelay = cfg.Battle.StageDelay()
	opts.DungeonEndDelay = cfg.Battle.DungeonEndDelay()
	opts.Battle = battle.Options{MissChargesUltimate: cfg.Battle.MissChargesUltimate}
	opts.DifficultyScaling = cfg.Battle.DifficultyScaling
	opts.Seed = cfg.Battle.Seed
	opts.SaveKey = cfg.Save.Key
	return opts
}

// newLore builds the cached HTTP generator. It returns nil when lore is
// disabled or no API key is configured, which makes every item fall back
// to the fixed text.
func newLore(cfg config.LoreConfig) (lore.Generator, error) {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil, nil
	}
	gen, err := lore.NewHTTP(&lore.HTTPConfig{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout(),
	})
	if err != nil {
		return nil, err
	}
	cached, err := lore.NewCached(gen, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// session is everything a command needs to run the game.
type session struct {
	cfg    *config.Config
	engine *engine.Engine
	lore   lore.Generator
	close  func()
}

func openSession(ctx context.Context, contentDir string, quietConsole bool) (*session, error) {
	cfg, err := setup(quietConsole)
	if err != nil {
		return nil, err
	}
	if contentDir != "" {
		cfg.Content.Dir = contentDir
	}

	cat, warnings, err := loadCatalog(cfg.Content.Dir)
	if err != nil {
		logger.Close()
		return nil, errors.Wrap(err, "failed to load content")
	}
	for _, w := range warnings {
		logger.Warning("content warning", "detail", w)
	}

	gen, err := newLore(cfg.Lore)
	if err != nil {
		logger.Warning("lore disabled", "error", err)
		gen = nil
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Close()
		return nil, err
	}

	logger.Info("session opened", "driver", cfg.Save.Driver, "key", cfg.Save.Key, "items", len(cat.Items))
	return &session{
		cfg:    cfg,
		engine: engine.New(cat, store, engineOptions(cfg)),
		lore:   gen,
		close: func() {
			if err := store.Close(); err != nil {
				logger.Warning("closing save store", "error", err)
			}
			logger.Close()
		},
	}, nil
}
