package save

//go:generate mockgen -destination=savemock/mock_store.go -package=savemock github.com/nathoo/gacharealm/engine/save Store

import (
	"context"

	"github.com/nathoo/gacharealm/errors"
)

// ErrNotFound is returned by Load when no snapshot exists under the key.
var ErrNotFound = errors.NotFound("save not found")

// Store is a key/value home for encoded snapshots.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func notFound(key string) error {
	return errors.NotFoundf("no save under %q", key)
}

func requireKey(key string) error {
	if key == "" {
		return errors.InvalidArgument("save key cannot be empty")
	}
	return nil
}
