// Package artifact tracks which predicted structure files exist and serves them.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"

	"github.com/rpggio/ionview/internal/repository"
)

// DefaultDir is the directory, relative to the site root, holding structure files.
const DefaultDir = "all_pdb"

var (
	// ErrNotFound is returned when a store has no file for a name.
	ErrNotFound = errors.New("artifact not found")
	// ErrInvalidName is returned for names that are not design<d>_n<n>.pdb.
	ErrInvalidName = errors.New("invalid artifact name")
)

var namePattern = regexp.MustCompile(`^design\d+_n\d+\.pdb$`)

// IsName reports whether name has the design<d>_n<n>.pdb shape.
func IsName(name string) bool {
	return namePattern.MatchString(name)
}

// DefaultNames returns the structure files shipped with the viewer:
// designs 0 through 7, each with samples 0 and 1.
func DefaultNames() []string {
	names := make([]string, 0, 16)
	for design := 0; design <= 7; design++ {
		for n := 0; n <= 1; n++ {
			names = append(names, fmt.Sprintf("design%d_n%d.pdb", design, n))
		}
	}
	return names
}

// Catalog is a fixed set of available artifact names.
type Catalog struct {
	names map[string]struct{}
}

// NewCatalog builds a catalog from names. Duplicates are ignored.
func NewCatalog(names []string) *Catalog {
	c := &Catalog{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		c.names[name] = struct{}{}
	}
	return c
}

// Has reports whether name is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.names[name]
	return ok
}

// Len returns the number of names.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Index lists artifact names from a backend.
type Index interface {
	ListArtifacts(ctx context.Context) ([]string, error)
}

// LoadCatalog snapshots an index into a catalog.
func LoadCatalog(ctx context.Context, idx Index) (*Catalog, error) {
	names, err := idx.ListArtifacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	return NewCatalog(names), nil
}

// ScanDir lists artifact files directly under dir in fsys.
func ScanDir(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !IsName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Writer registers artifact names in an index.
type Writer interface {
	AddArtifact(ctx context.Context, name string) error
}

// LoadSeeded snapshots repo into a catalog. An empty index is first seeded
// with the names from seed; added reports how many were registered.
func LoadSeeded(ctx context.Context, repo repository.ArtifactRepository, seed func() []string) (catalog *Catalog, added int, err error) {
	existing, err := repo.ListArtifacts(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing artifacts: %w", err)
	}
	if len(existing) > 0 {
		return NewCatalog(existing), 0, nil
	}
	added, err = Seed(ctx, repo, seed())
	if err != nil {
		return nil, added, err
	}
	catalog, err = LoadCatalog(ctx, repo)
	return catalog, added, err
}

// Seed adds names to w, skipping ones already registered. It returns how
// many were added.
func Seed(ctx context.Context, w Writer, names []string) (int, error) {
	added := 0
	for _, name := range names {
		err := w.AddArtifact(ctx, name)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("adding %s: %w", name, err)
		}
		added++
	}
	return added, nil
}
