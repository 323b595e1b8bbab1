package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lokeshch/document-assistant/internal/core/domain"
)

// Storage keeps uploaded documents as flat files under one directory.
// Keys are the stored filenames the ingest flow produces ({uuid}_{sanitized
// original name}), so a key never names a subdirectory.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/storage"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Save(ctx context.Context, key string, data io.Reader) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.basePath, key)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create object %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write object %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.basePath, key)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "open object", fmt.Errorf("key %s", key))
		}
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	return f, nil
}

// validateKey rejects anything that could escape the storage directory.
// Sanitized upload keys never contain separators or dot segments.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return domain.WrapError(domain.ErrInvalidInput, "storage key", fmt.Errorf("empty or reserved key %q", key))
	}
	if strings.ContainsAny(key, `/\`) {
		return domain.WrapError(domain.ErrInvalidInput, "storage key", fmt.Errorf("key %q contains a path separator", key))
	}
	return nil
}
