package cache

import (
	"errors"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheCorrupted is returned when a stored entry cannot be decompressed
	ErrCacheCorrupted = errors.New("cache data corrupted")

	// ErrCacheClosed is returned by Put after Close
	ErrCacheClosed = errors.New("cache closed")
)

// CacheStats holds cache performance metrics
type CacheStats struct {
	// Configuration
	Capacity int64 // Maximum capacity in bytes

	// Current state
	Size      int64 // Current size in bytes (as stored)
	ItemCount int64 // Number of items in cache

	// Performance metrics
	Hits      int64   // Number of cache hits
	Misses    int64   // Number of cache misses
	Evictions int64   // Number of evictions
	Corrupted int64   // Entries dropped because they failed to decompress
	HitRate   float64 // Calculated hit rate (hits / (hits + misses))

	// Compression
	OriginalSize int64 // Uncompressed bytes held
}

// CompressionRatio returns stored size over original size, or 1 when empty.
func (s CacheStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 1
	}
	return float64(s.Size) / float64(s.OriginalSize)
}

// CacheMetadata contains metadata about a cached item
type CacheMetadata struct {
	Key          string    // Cache key
	Size         int64     // Size in bytes as stored
	OriginalSize int64     // Size in bytes before compression
	Timestamp    time.Time // When item was cached
	Hits         int64     // Number of times accessed
}

// CacheConfig holds configuration for the memory cache
type CacheConfig struct {
	Capacity          int64 // Bytes
	EnableCompression bool
	CompressionLevel  int // Zstd compression level (1-22, default 3)
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Capacity:          16 * 1024 * 1024, // 16MB
		EnableCompression: true,
		CompressionLevel:  3,
	}
}
