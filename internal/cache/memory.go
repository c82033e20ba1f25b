package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

// MemoryCache implements an in-memory cache with LRU eviction.
// Capacity is measured against the stored (possibly compressed) size.
type MemoryCache struct {
	capacity int64 // Maximum size in bytes
	size     int64 // Current size in bytes

	// LRU implementation
	items    map[string]*list.Element
	eviction *list.List

	// Compression
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	// Synchronization
	mu     sync.RWMutex
	closed bool

	// Metrics
	stats CacheStats
}

// memoryCacheEntry represents an entry in the memory cache
type memoryCacheEntry struct {
	key          string
	value        []byte
	size         int64
	originalSize int64
	timestamp    time.Time
	hits         int64
}

// NewMemoryCache creates a new uncompressed memory cache with the specified
// capacity in bytes.
func NewMemoryCache(capacity int64) *MemoryCache {
	return &MemoryCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		stats: CacheStats{
			Capacity: capacity,
		},
	}
}

// New creates a memory cache from config, setting up zstd when compression
// is enabled.
func New(config CacheConfig) (*MemoryCache, error) {
	c := NewMemoryCache(config.Capacity)
	if !config.EnableCompression {
		return c, nil
	}

	level := config.CompressionLevel
	if level <= 0 {
		level = 3
	}

	var err error
	c.encoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	c.decoder, err = zstd.NewReader(nil)
	if err != nil {
		_ = c.encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return c, nil
}

// Compressed reports whether entries are stored zstd-compressed.
func (c *MemoryCache) Compressed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.encoder != nil
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, false
	}

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	entry := elem.Value.(*memoryCacheEntry)
	value := entry.value
	if c.decoder != nil {
		decoded, err := c.decoder.DecodeAll(entry.value, make([]byte, 0, entry.originalSize))
		if err != nil {
			log.Warn("Dropping cache entry", "key", key, "error", fmt.Errorf("%w: %w", ErrCacheCorrupted, err))
			c.removeElement(elem)
			c.stats.Corrupted++
			c.stats.Misses++
			return nil, false
		}
		value = decoded
	}

	// Move to front (most recently used)
	c.eviction.MoveToFront(elem)
	entry.hits++

	c.stats.Hits++
	return value, true
}

// Put stores a value in the cache. It returns ErrCacheClosed after Close.
func (c *MemoryCache) Put(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	var stored []byte
	if c.encoder != nil {
		stored = c.encoder.EncodeAll(value, make([]byte, 0, len(value)/2))
	} else {
		// Own the bytes; callers may reuse their buffer
		stored = append([]byte(nil), value...)
	}

	storedSize := int64(len(stored))
	originalSize := int64(len(value))

	// Check if value is too large for cache
	if storedSize > c.capacity {
		return ErrItemTooLarge
	}

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}

	// Evict items if necessary
	for c.size+storedSize > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}

	entry := &memoryCacheEntry{
		key:          key,
		value:        stored,
		size:         storedSize,
		originalSize: originalSize,
		timestamp:    time.Now(),
	}

	elem := c.eviction.PushFront(entry)
	c.items[key] = elem
	c.size += storedSize
	c.stats.OriginalSize += originalSize

	c.stats.Size = c.size
	return nil
}

// Delete removes an entry from the cache.
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil
	}

	c.removeElement(elem)
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
	c.stats.Size = 0
	c.stats.OriginalSize = 0

	return nil
}

// Size returns the current cache size in bytes.
func (c *MemoryCache) Size() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.size
}

// Contains checks if a key exists in the cache without updating LRU.
func (c *MemoryCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[key]
	return ok
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = c.size
	stats.ItemCount = int64(len(c.items))

	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}

	return stats
}

// Metadata returns metadata for key without updating LRU order or stats.
func (c *MemoryCache) Metadata(key string) (CacheMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	elem, ok := c.items[key]
	if !ok {
		return CacheMetadata{}, false
	}

	entry := elem.Value.(*memoryCacheEntry)
	return CacheMetadata{
		Key:          entry.key,
		Size:         entry.size,
		OriginalSize: entry.originalSize,
		Timestamp:    entry.timestamp,
		Hits:         entry.hits,
	}, true
}

// Close releases the zstd encoder and decoder. Later Gets miss and Puts
// fail with ErrCacheClosed.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	var err error
	if c.encoder != nil {
		err = c.encoder.Close()
		c.encoder = nil
	}
	if c.decoder != nil {
		c.decoder.Close()
		c.decoder = nil
	}
	return err
}

// evictOldest removes the least recently used item (must be called with lock held).
func (c *MemoryCache) evictOldest() {
	elem := c.eviction.Back()
	if elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
	}
}

// removeElement removes an element from the cache (must be called with lock held).
func (c *MemoryCache) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*memoryCacheEntry)
	delete(c.items, entry.key)
	c.size -= entry.size
	c.stats.OriginalSize -= entry.originalSize
	c.stats.Size = c.size
}
