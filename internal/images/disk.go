package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// DiskStore keeps images as plain files under Root.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &DiskStore{Root: root}, nil
}

func (s *DiskStore) Put(_ context.Context, name string, data []byte, _ string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	return os.WriteFile(filepath.Join(s.Root, name), data, 0o644)
}

func (s *DiskStore) Get(_ context.Context, name string) ([]byte, string, error) {
	if !ValidName(name) {
		return nil, "", ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.Root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return data, ct, nil
}
