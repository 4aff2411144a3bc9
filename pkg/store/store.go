package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"time"

	"github.com/matzehuels/drawgraph/pkg/config"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
)

// ErrNotFound is returned by [Load] when a key holds no document.
var ErrNotFound = errors.New("not found")

// Store is a key/value store for serialized documents.
//
// Get reports a miss with ok == false and a nil error. A ttl of zero means
// the entry never expires.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultDir returns the file store directory used when none is configured.
func DefaultDir() (string, error) {
	dir, err := userCacheDir()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeStore, err, "locate cache dir")
	}
	return filepath.Join(dir, "drawgraph", "documents"), nil
}

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return NewFileStore(dir)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendRedis:
		return NewRedisStore(ctx, RedisOptions{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			DefaultTTL: cfg.RedisTTL.Duration,
		})
	case config.BackendMongo:
		return NewMongoStore(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	case config.BackendNone:
		return NullStore{}, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
}
