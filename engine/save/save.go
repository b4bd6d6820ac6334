// Package save implements the persisted player snapshot and the stores that
// hold it.
package save

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/logger"
	"github.com/nathoo/gacharealm/types"
)

// DefaultKey is the key the snapshot is stored under.
const DefaultKey = "gacharealm:player_state"

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string            `json:"version"`
	SavedAt     time.Time         `json:"saved_at"`
	Player      types.PlayerState `json:"player"`
	RNGSeed     int64             `json:"rng_seed"`
	RNGPosition int64             `json:"rng_position"`
}

// Encode serializes a snapshot.
func Encode(sd SaveData) ([]byte, error) {
	data, err := json.MarshalIndent(sd, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode save")
	}
	return data, nil
}

// Decode parses a snapshot on top of the catalog's starting player: fields
// missing from data keep their defaults and unknown fields are ignored.
// The result is normalized against the catalog.
func Decode(cat *state.Catalog, data []byte) (SaveData, error) {
	sd := SaveData{Player: state.Clone(cat.Start)}
	if err := json.Unmarshal(data, &sd); err != nil {
		return SaveData{}, errors.WrapWithCode(err, errors.CodeDataLoss, "save data is corrupt")
	}
	sd.Player = state.Normalize(cat, sd.Player)
	return sd, nil
}

// LoadOrInit reads the snapshot under key. A missing or unreadable snapshot
// falls back to a fresh player; found reports whether a save was used.
func LoadOrInit(ctx context.Context, store Store, cat *state.Catalog, key string) (sd SaveData, found bool) {
	fresh := SaveData{Version: cat.Game.Version, Player: state.NewPlayer(cat)}

	data, err := store.Load(ctx, key)
	if err != nil {
		if !errors.IsNotFound(err) {
			logger.Warning("failed to read save, starting fresh", "key", key, "error", err)
		}
		return fresh, false
	}

	sd, err = Decode(cat, data)
	if err != nil {
		logger.Warning("discarding unreadable save", "key", key, "error", err)
		return fresh, false
	}
	return sd, true
}

// Write encodes and stores a snapshot, stamping SavedAt.
func Write(ctx context.Context, store Store, key string, sd SaveData) error {
	sd.SavedAt = time.Now().UTC()
	data, err := Encode(sd)
	if err != nil {
		return err
	}
	return store.Save(ctx, key, data)
}
