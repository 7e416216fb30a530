package pipeline

import (
	"fmt"
	"sync"

	"github.com/gogpu/framegraph"
)

// FactoryID identifies a factory configuration for cache persistence.
// Factories that register the same characteristics should share an id
// so reruns find their cache.
type FactoryID uint64

// CacheKey identifies one persisted cache: the device it was built on
// and the factory that built it.
type CacheKey struct {
	Device  string
	Factory FactoryID
}

// blobName is the store name for the key's blob.
func (k CacheKey) blobName() string {
	return fmt.Sprintf("%s/%d", k.Device, k.Factory)
}

// Store persists cache blobs by name. Load returns [ErrBlobNotFound]
// for names never saved.
type Store interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
}

// MemoryStore is an in-memory Store for tests and embedding.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Load implements Store.
func (s *MemoryStore) Load(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, name)
	}
	return blob, nil
}

// Save implements Store.
func (s *MemoryStore) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = append([]byte(nil), data...)
	return nil
}

// Broker hands factories their caches and persists them afterwards.
//
// Acquire returns the live cache for a key, creating it and seeding it
// from the store on first request; reruns of the same factory on the
// same device therefore resume with their known-hash set. Release
// saves the key's blob back to the store. All factories of one device
// can additionally be merged into a device-wide blob.
//
// Thread safety: Broker is safe for concurrent use.
type Broker struct {
	store Store

	mu     sync.Mutex
	caches map[CacheKey]*Cache
}

// NewBroker creates a broker over the given store. A nil store means
// no persistence: caches are still shared per key for the broker's
// lifetime.
func NewBroker(store Store) *Broker {
	return &Broker{store: store, caches: make(map[CacheKey]*Cache)}
}

// Acquire returns the cache for the key, creating and seeding it from
// the store on first request. A blob that fails to load is logged and
// ignored; enumeration proceeds with an empty cache.
func (b *Broker) Acquire(key CacheKey) *Cache {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.caches[key]; ok {
		return c
	}
	c := NewCache()
	if b.store != nil {
		if blob, err := b.store.Load(key.blobName()); err == nil {
			if err := c.Load(blob); err != nil {
				framegraph.Logger().Warn("pipeline cache blob rejected",
					"key", key.blobName(), "err", err)
			}
		}
	}
	b.caches[key] = c
	return c
}

// Release persists the key's cache back to the store. The cache stays
// live for later Acquires.
func (b *Broker) Release(key CacheKey) error {
	b.mu.Lock()
	c, ok := b.caches[key]
	b.mu.Unlock()
	if !ok || b.store == nil {
		return nil
	}
	if err := b.store.Save(key.blobName(), c.Save()); err != nil {
		return fmt.Errorf("save pipeline cache %s: %w", key.blobName(), err)
	}
	return nil
}

// MergeDevice merges every factory's cache for the device into one
// combined cache and persists it under the device name.
func (b *Broker) MergeDevice(device string) (*Cache, error) {
	merged := NewCache()
	b.mu.Lock()
	for key, c := range b.caches {
		if key.Device == device {
			merged.Merge(c)
		}
	}
	b.mu.Unlock()

	if b.store != nil {
		if err := b.store.Save(device, merged.Save()); err != nil {
			return nil, fmt.Errorf("save merged pipeline cache %s: %w", device, err)
		}
	}
	return merged, nil
}
