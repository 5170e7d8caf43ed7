package storage

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("store closed")
)

// Store is a synchronous key-value store.
//
// Implementations are safe for concurrent use, but callers are expected to
// act as a single logical writer per key.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the engine's resources.
	Close() error
}

// Engine names.
const (
	EngineMemory = "memory"
	EngineFile   = "file"
	EngineBadger = "badger"
	EngineSQLite = "sqlite"
)

// Config configures a store.
type Config struct {
	// Engine selects the implementation ("memory", "file", "badger", "sqlite").
	// Default: "file"
	Engine string

	// Dir is the storage directory (unused by the memory engine).
	Dir string

	// EncryptionKey is a hex-encoded key. When set, values are sealed
	// before reaching the engine.
	EncryptionKey string

	// Cipher selects the sealing algorithm ("auto", "aes-gcm", "chacha20-poly1305").
	Cipher string

	// Badger-specific configuration
	Badger BadgerConfig
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic value log GC runs.
	// Default: 10m
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 8MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 64MB
	ValueLogFileSize int64

	// SyncWrites enables fsync after each write.
	// Default: true (a single page document, durability over throughput)
	SyncWrites bool

	// InMemory runs Badger without touching disk.
	InMemory bool
}

// DefaultConfig returns the default store configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Engine: EngineFile,
		Dir:    dir,
		Cipher: string(CipherAuto),
		Badger: DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        8 << 20,  // 8MB
		ValueLogFileSize: 64 << 20, // 64MB
		SyncWrites:       true,
	}
}
