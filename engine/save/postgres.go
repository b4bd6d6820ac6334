package save

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathoo/gacharealm/errors"
)

// PostgresStore keeps snapshots in a Postgres table as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the saves table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.InvalidArgument("postgres dsn is required")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse connection string")
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "postgres ping failed")
	}

	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS saves (
		key TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}
	return &PostgresStore{pool: pool}, nil
}

var _ Store = (*PostgresStore)(nil)

// Load reads the row for key.
func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM saves WHERE key = $1`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(key)
		}
		return nil, errors.Wrapf(err, "failed to query save %s", key)
	}
	return data, nil
}

// Save upserts the row for key.
func (s *PostgresStore) Save(ctx context.Context, key string, data []byte) error {
	if err := requireKey(key); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saves (key, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, key, data)
	if err != nil {
		return errors.Wrapf(err, "failed to write save %s", key)
	}
	return nil
}

// Delete removes the row for key.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM saves WHERE key = $1`, key); err != nil {
		return errors.Wrapf(err, "failed to delete save %s", key)
	}
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
