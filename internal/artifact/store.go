package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Store opens artifact files by name.
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirStore serves artifacts from a local directory.
type DirStore struct {
	fsys fs.FS
}

// NewDirStore creates a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{fsys: os.DirFS(dir)}
}

// NewFSStore creates a store over an arbitrary filesystem.
func NewFSStore(fsys fs.FS) *DirStore {
	return &DirStore{fsys: fsys}
}

// Open returns the file contents for name.
func (s *DirStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !IsName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}

// ListArtifacts lists the artifact files in the directory.
func (s *DirStore) ListArtifacts(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ScanDir(s.fsys, ".")
}
