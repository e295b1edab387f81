package history

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cockroachdb/pebble"
)

const pebbleKeyPrefix = "transcript:"

// PebbleBlobStore keeps blobs in a local Pebble database
type PebbleBlobStore struct {
	db *pebble.DB
}

// NewPebbleBlobStore opens (or creates) a Pebble database at path
func NewPebbleBlobStore(path string) (*PebbleBlobStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble database %s: %w", path, err)
	}
	return &PebbleBlobStore{db: db}, nil
}

func pebbleKey(key string) []byte {
	return []byte(pebbleKeyPrefix + key)
}

func (s *PebbleBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	value, closer, err := s.db.Get(pebbleKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	defer closer.Close()

	// The value is only valid until closer is closed
	return slices.Clone(value), nil
}

func (s *PebbleBlobStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.db.Set(pebbleKey(key), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to set blob %s: %w", key, err)
	}
	return nil
}

func (s *PebbleBlobStore) Delete(ctx context.Context, key string) error {
	_, closer, err := s.db.Get(pebbleKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	closer.Close()

	if err := s.db.Delete(pebbleKey(key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

func (s *PebbleBlobStore) Close() error {
	return s.db.Close()
}
