package save

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/nathoo/gacharealm/errors"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a store driver.
type Options struct {
	Driver        string
	Path          string // file: directory; sqlite: database file
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostgresDSN   string
}

// Open builds the store named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFile(opts.Path)
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, errors.WrapWithCodef(err, errors.CodeUnavailable, "redis at %s is unreachable", opts.RedisAddr)
		}
		return NewRedis(&RedisConfig{Client: client})
	case DriverSQLite:
		return OpenSQLite(opts.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.PostgresDSN)
	default:
		return nil, errors.InvalidArgumentf("unknown save driver %q", opts.Driver)
	}
}
