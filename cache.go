package hwp

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	sum  uint64
	size int
}

// Cache remembers the documents parsed from recently seen inputs. Inputs are
// identified by their xxhash digest and length. Every parse through a Cache
// uses the options given to NewCache, so cached documents stay comparable.
//
// Cached documents are shared between callers and must not be modified.
// A Cache is safe for concurrent use.
type Cache struct {
	docs *lru.Cache[cacheKey, *Document]
	opts []ReadOption
}

// NewCache returns a Cache holding at most size documents.
func NewCache(size int, opts ...ReadOption) (*Cache, error) {
	docs, err := lru.New[cacheKey, *Document](size)
	if err != nil {
		return nil, fmt.Errorf("hwp: cache: %w", err)
	}
	return &Cache{docs: docs, opts: opts}, nil
}

// Parse returns the cached document for data, parsing and caching it on a
// miss. Failed parses are not cached.
func (c *Cache) Parse(ctx context.Context, data []byte) (*Document, error) {
	key := cacheKey{sum: xxhash.Sum64(data), size: len(data)}
	if doc, ok := c.docs.Get(key); ok {
		return doc, nil
	}
	doc, err := ParseContext(ctx, data, c.opts...)
	if err != nil {
		return nil, err
	}
	c.docs.Add(key, doc)
	return doc, nil
}

func (c *Cache) Len() int { return c.docs.Len() }

// Purge drops every cached document.
func (c *Cache) Purge() { c.docs.Purge() }
