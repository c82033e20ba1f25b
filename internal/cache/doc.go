// Package cache provides an in-memory LRU cache for synthesized audio.
// Entries can be stored zstd-compressed.
package cache
