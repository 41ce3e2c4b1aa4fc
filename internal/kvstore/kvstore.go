// Package kvstore provides the durable key/value boundary used for the
// persisted session and the local mock backend. It plays the part a
// browser's local storage plays for a single page application: string keys,
// opaque values, whole values overwritten on every write.
package kvstore

import (
	"context"
	"fmt"
	"strings"
)

// KV is a minimal durable key/value store.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// Driver identifiers
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config describes the store selection parameters.
type Config struct {
	Driver string
	Folder string
	Redis  *RedisConfig
	SQLite *SQLiteConfig
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// SQLiteConfig holds the database location.
type SQLiteConfig struct {
	Path string
}

// New creates a store based on the provided configuration.
func New(cfg Config) (KV, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFile
	}

	switch driver {
	case DriverFile:
		return NewFile(cfg.Folder)
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(cfg.Redis)
	case DriverSQLite:
		return NewSQLite(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported kv store driver: %s", driver)
	}
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
