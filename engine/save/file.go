package save

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/gacharealm/errors"
)

// FileStore writes one JSON file per key under a directory.
type FileStore struct {
	dir string
}

// NewFile creates a file store rooted at dir, creating it if needed.
func NewFile(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.InvalidArgument("save directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create save directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

var _ Store = (*FileStore)(nil)

// Path returns the file a key is stored in.
func (f *FileStore) Path(key string) string {
	name := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key)
	return filepath.Join(f.dir, name+".json")
}

// Load reads the file for key.
func (f *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(key)
		}
		return nil, errors.Wrapf(err, "failed to read save %s", key)
	}
	return data, nil
}

// Save writes data to a temp file and renames it over the old snapshot.
func (f *FileStore) Save(_ context.Context, key string, data []byte) error {
	if err := requireKey(key); err != nil {
		return err
	}
	path := f.Path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write save %s", key)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "failed to replace save %s", key)
	}
	return nil
}

// Delete removes the file for key.
func (f *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(f.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "failed to delete save %s", key)
	}
	return nil
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }
