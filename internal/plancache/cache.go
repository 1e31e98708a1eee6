// Package plancache caches compiled statements keyed by request signature,
// so repeated identical requests skip recompilation.
package plancache

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fraiseql/fraiseql-go/query"
)

// DefaultMaxEntries bounds the cache when the caller does not.
const DefaultMaxEntries = 1024

// Entries above this size are stored zstd-compressed. Small compiled
// statements are not worth the frame overhead.
const compressThreshold = 1024

const (
	flagRaw  byte = 0
	flagZstd byte = 1
)

// Cache is a bounded in-memory cache of compiled statements. Entries are
// msgpack-encoded and compressed once they cross the size threshold.
// Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
	max     int

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New creates a cache holding at most maxEntries compiled statements.
// maxEntries <= 0 selects DefaultMaxEntries. Caller must call Close when
// done to release compressor resources.
func New(maxEntries int) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Cache{
		entries: make(map[string][]byte),
		max:     maxEntries,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Get returns the cached statement for key, if present.
func (c *Cache) Get(key string) (query.DatabaseQuery, bool) {
	c.mu.Lock()
	stored, ok := c.entries[key]
	c.mu.Unlock()
	if !ok || len(stored) == 0 {
		return query.DatabaseQuery{}, false
	}

	payload := stored[1:]
	if stored[0] == flagZstd {
		// DecodeAll is goroutine-safe
		decompressed, err := c.decoder.DecodeAll(payload, nil)
		if err != nil {
			return query.DatabaseQuery{}, false
		}
		payload = decompressed
	}

	var q query.DatabaseQuery
	if err := msgpack.Unmarshal(payload, &q); err != nil {
		return query.DatabaseQuery{}, false
	}
	return q, true
}

// Put stores a compiled statement under key. When the cache is full an
// arbitrary entry is evicted; compiled statements are cheap to rebuild.
func (c *Cache) Put(key string, q query.DatabaseQuery) error {
	payload, err := msgpack.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to encode statement: %w", err)
	}

	flag := flagRaw
	if len(payload) > compressThreshold {
		// EncodeAll is goroutine-safe
		payload = c.encoder.EncodeAll(payload, make([]byte, 0, len(payload)/2))
		flag = flagZstd
	}

	stored := make([]byte, 0, len(payload)+1)
	stored = append(stored, flag)
	stored = append(stored, payload...)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.max {
		for evict := range c.entries {
			delete(c.entries, evict)
			break
		}
	}
	c.entries[key] = stored
	return nil
}

// Len returns the number of cached statements.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close releases compressor resources.
func (c *Cache) Close() error {
	c.decoder.Close()
	return c.encoder.Close()
}
