package lore

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/nathoo/gacharealm/errors"
)

// DefaultCacheSize is used when NewCached gets a non-positive size.
const DefaultCacheSize = 128

// Cached memoizes successful generations and collapses concurrent
// requests for the same item into one upstream call. Failures are not
// cached.
type Cached struct {
	next  Generator
	cache *lru.Cache
	group singleflight.Group
}

// NewCached wraps next with an LRU of the given size.
func NewCached(next Generator, size int) (*Cached, error) {
	if next == nil {
		return nil, errors.InvalidArgument("generator is required")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create lore cache")
	}
	return &Cached{next: next, cache: cache}, nil
}

var _ Generator = (*Cached)(nil)

func cacheKey(req Request) string {
	return strings.Join([]string{req.Name, req.Type, req.Description}, "\x1f")
}

// Generate returns the cached text for req or asks the wrapped generator.
func (c *Cached) Generate(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req)
	if v, ok := c.cache.Get(key); ok {
		return v.(string), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		text, err := c.next.Generate(ctx, req)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) != "" {
			c.cache.Add(key, text)
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Len reports how many entries are cached.
func (c *Cached) Len() int {
	return c.cache.Len()
}
