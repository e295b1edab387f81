package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileBlobStore keeps one JSON file per key inside a directory
type FileBlobStore struct {
	dir string
}

// NewFileBlobStore creates the directory if needed and returns a store rooted there
func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if dir == "" {
		return nil, errors.New("file store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &FileBlobStore{dir: dir}, nil
}

// path maps a key to a file name, replacing characters that are unsafe in file names
func (s *FileBlobStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	safe = strings.TrimLeft(safe, ".")
	if safe == "" {
		safe = "_"
	}
	return filepath.Join(s.dir, safe+".json")
}

func (s *FileBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// Save writes to a temporary file and renames it into place so readers never see a partial blob
func (s *FileBlobStore) Save(ctx context.Context, key string, data []byte) error {
	target := s.path(key)

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close blob %s: %w", key, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("failed to replace blob %s: %w", key, err)
	}
	return nil
}

func (s *FileBlobStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

func (s *FileBlobStore) Close() error {
	return nil
}
