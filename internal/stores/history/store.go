// Package history persists the widget's transcript as a single blob per client profile.
package history

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ethanbaker/chatwidget/pkg/transcript"
)

// ErrNotFound is returned by a BlobStore when no blob exists for a key
var ErrNotFound = errors.New("blob not found")

// BlobStore saves opaque blobs by key
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultProfile is the profile key used when none is configured
const DefaultProfile = "chatHistory"

// Store reads and writes one profile's transcript through a BlobStore
type Store struct {
	blobs   BlobStore
	profile string
}

// NewStore creates a transcript store for a profile
func NewStore(blobs BlobStore, profile string) *Store {
	if profile == "" {
		profile = DefaultProfile
	}
	return &Store{blobs: blobs, profile: profile}
}

// Profile returns the profile key the store reads and writes
func (s *Store) Profile() string {
	return s.profile
}

// Restore returns the persisted transcript. A missing, unreadable or malformed blob yields an empty
// transcript and is only logged
func (s *Store) Restore(ctx context.Context) transcript.Transcript {
	data, err := s.blobs.Load(ctx, s.profile)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[STORE]: Could not load transcript for %s: %v", s.profile, err)
		}
		return transcript.Transcript{}
	}

	t, err := transcript.Decode(data)
	if err != nil {
		log.Printf("[STORE]: Discarding corrupt transcript for %s: %v", s.profile, err)
		return transcript.Transcript{}
	}

	if err := transcript.Validate(t); err != nil {
		log.Printf("[STORE]: Discarding malformed transcript for %s: %v", s.profile, err)
		return transcript.Transcript{}
	}

	if t == nil {
		return transcript.Transcript{}
	}
	return t
}

// Persist overwrites the stored transcript wholesale
func (s *Store) Persist(ctx context.Context, t transcript.Transcript) error {
	if err := transcript.Validate(t); err != nil {
		return fmt.Errorf("failed to persist transcript: %w", err)
	}

	data, err := transcript.Encode(t)
	if err != nil {
		return err
	}

	if err := s.blobs.Save(ctx, s.profile, data); err != nil {
		return fmt.Errorf("failed to persist transcript: %w", err)
	}
	return nil
}

// Reset deletes the stored transcript. Resetting a missing transcript is not an error
func (s *Store) Reset(ctx context.Context) error {
	if err := s.blobs.Delete(ctx, s.profile); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to reset transcript: %w", err)
	}
	return nil
}

// Close releases the underlying blob store
func (s *Store) Close() error {
	return s.blobs.Close()
}
