package video

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const fragmentExt = ".webm"

// DiskStore writes fragments under <root>/<session id>/.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Save(_ context.Context, sessionID string, sequence int, data []byte) (string, error) {
	dir := filepath.Join(s.root, filepath.Base(sessionID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create fragment dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%06d%s", sequence, fragmentExt))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write fragment: %w", err)
	}
	return path, nil
}

func (s *DiskStore) Remove(_ context.Context, locations []string) error {
	var errs []error
	for _, loc := range locations {
		if err := os.Remove(loc); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
