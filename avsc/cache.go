package avsc

import (
	"bytes"
	"sync"

	"github.com/zeebo/xxh3"
)

// Cache memoizes parsed schemas keyed by a hash of their source text, so a
// schema shipped alongside every message is parsed only once. Entries keep
// their source and a hit is confirmed byte for byte.
type Cache struct {
	mu      sync.RWMutex
	hash    func([]byte) uint64
	schemas map[uint64][]cacheEntry
	n       int
}

type cacheEntry struct {
	src    []byte
	schema *Schema
}

// NewCache returns an empty cache safe for concurrent use.
func NewCache() *Cache {
	return &Cache{hash: xxh3.Hash, schemas: map[uint64][]cacheEntry{}}
}

func (c *Cache) lookup(key uint64, src []byte) (*Schema, bool) {
	for _, e := range c.schemas[key] {
		if bytes.Equal(e.src, src) {
			return e.schema, true
		}
	}
	return nil, false
}

// Get returns the schema parsed from src, parsing it on first sight.
func (c *Cache) Get(src []byte) (*Schema, error) {
	key := c.hash(src)
	c.mu.RLock()
	s, ok := c.lookup(key, src)
	c.mu.RUnlock()
	if ok {
		return s, nil
	}
	s, err := Parse(src)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.lookup(key, src); ok {
		return prev, nil
	}
	c.schemas[key] = append(c.schemas[key], cacheEntry{src: bytes.Clone(src), schema: s})
	c.n++
	return s, nil
}

// Len reports how many distinct schemas are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.n
}
