package history

import (
	"context"
	"slices"
	"sync"
)

// InMemoryBlobStore keeps blobs in a map. Blobs are lost when the process exits
type InMemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewInMemoryBlobStore creates an empty in-memory blob store
func NewInMemoryBlobStore() *InMemoryBlobStore {
	return &InMemoryBlobStore{
		blobs: make(map[string][]byte),
	}
}

func (s *InMemoryBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

func (s *InMemoryBlobStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = slices.Clone(data)
	return nil
}

func (s *InMemoryBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[key]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, key)
	return nil
}

func (s *InMemoryBlobStore) Close() error {
	return nil
}
