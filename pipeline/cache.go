package pipeline

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
)

// Cache blob format: magic, version, count, then count descriptor
// hashes. The blob records which descriptors a device has already built
// pipelines for; pipelines themselves are never serialized.
const (
	cacheMagic   = 0x46475043 // "FGPC"
	cacheVersion = 1
)

// Cache stores created pipelines indexed by descriptor hash.
//
// Pipeline creation is expensive; factories sharing a cache never build
// the same descriptor twice. The cache also carries the set of hashes
// seen in earlier runs, persisted through a [Broker].
//
// Thread safety: Cache is safe for concurrent use. It uses RWMutex with
// double-check locking for efficient reads and safe writes.
type Cache struct {
	mu sync.RWMutex

	// pipelines stores created pipelines indexed by descriptor hash.
	pipelines map[uint64]*Pipeline

	// known holds every descriptor hash ever built, including hashes
	// loaded from a persisted blob.
	known map[uint64]struct{}

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache creates an empty pipeline cache.
func NewCache() *Cache {
	return &Cache{
		pipelines: make(map[uint64]*Pipeline),
		known:     make(map[uint64]struct{}),
	}
}

// GetOrCreate returns the cached pipeline for the merged description,
// creating it on the device on first request.
//
// Fast path: read lock, return on hit. Slow path: write lock with a
// double check, then create.
func (c *Cache) GetOrCreate(dev Device, m *MergedCreateInfo) (*Pipeline, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	hash := m.Hash()

	c.mu.RLock()
	if p, ok := c.pipelines[hash]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pipelines[hash]; ok {
		c.hits.Add(1)
		return p, nil
	}

	desc, err := m.Descriptor()
	if err != nil {
		return nil, err
	}
	raw, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("create pipeline %q: %w", m.Label, err)
	}

	p := &Pipeline{
		id:    pipelineIDCounter.Add(1),
		label: m.Label,
		hash:  hash,
		raw:   raw,
	}
	c.pipelines[hash] = p
	c.known[hash] = struct{}{}
	c.misses.Add(1)

	return p, nil
}

// Stats returns the numbers of cache hits and misses.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the number of cached pipelines.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// Known returns the number of descriptor hashes the cache has seen,
// including hashes loaded from a persisted blob.
func (c *Cache) Known() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.known)
}

// Merge adds the other cache's pipelines and known hashes. Existing
// entries win on conflict.
func (c *Cache) Merge(other *Cache) {
	if other == nil || other == c {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	for hash, p := range other.pipelines {
		if _, ok := c.pipelines[hash]; !ok {
			c.pipelines[hash] = p
		}
	}
	for hash := range other.known {
		c.known[hash] = struct{}{}
	}
}

// Save serializes the known descriptor hashes to an opaque blob.
func (c *Cache) Save() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	buf := make([]byte, 0, 12+8*len(c.known))
	buf = binary.LittleEndian.AppendUint32(buf, cacheMagic)
	buf = binary.LittleEndian.AppendUint32(buf, cacheVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(c.known)))
	for hash := range c.known {
		buf = binary.LittleEndian.AppendUint64(buf, hash)
	}
	return buf
}

// Load merges a blob written by Save into the known-hash set.
func (c *Cache) Load(blob []byte) error {
	if len(blob) < 12 {
		return ErrCacheCorrupt
	}
	if binary.LittleEndian.Uint32(blob[0:4]) != cacheMagic {
		return ErrCacheCorrupt
	}
	if binary.LittleEndian.Uint32(blob[4:8]) != cacheVersion {
		return ErrCacheVersion
	}
	count := binary.LittleEndian.Uint32(blob[8:12])
	if len(blob) != 12+8*int(count) {
		return ErrCacheCorrupt
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < int(count); i++ {
		off := 12 + 8*i
		c.known[binary.LittleEndian.Uint64(blob[off:off+8])] = struct{}{}
	}
	return nil
}
