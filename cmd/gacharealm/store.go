package main

import (
	"context"

	"github.com/nathoo/gacharealm/config"
	"github.com/nathoo/gacharealm/engine/save"
	"github.com/nathoo/gacharealm/errors"
)

func openStore(ctx context.Context, cfg *config.Config) (save.Store, error) {
	store, err := save.Open(ctx, cfg.SaveOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s save store", cfg.Save.Driver)
	}
	return store, nil
}
