package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore abstracts where video binaries live. The in-tree
// implementation writes to local disk; an object-store client would
// satisfy the same interface. Open returns a seekable handle so the
// HTTP layer can serve Range requests.
type BlobStore interface {
	Save(name string, r io.Reader) (string, error)
	Open(path string) (io.ReadSeekCloser, error)
	Remove(path string) error
}

type DiskBlobStore struct {
	root string
}

func NewDiskBlobStore(root string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &DiskBlobStore{root: root}, nil
}

func (s *DiskBlobStore) Save(name string, r io.Reader) (string, error) {
	ext := filepath.Ext(name)
	path := filepath.Join(s.root, uuid.NewString()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return path, nil
}

func (s *DiskBlobStore) Open(path string) (io.ReadSeekCloser, error) {
	return os.Open(path)
}

func (s *DiskBlobStore) Remove(path string) error {
	return os.Remove(path)
}
