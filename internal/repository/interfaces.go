package repository

import "context"

// ArtifactRepository manages a writable artifact index.
type ArtifactRepository interface {
	ListArtifacts(ctx context.Context) ([]string, error)
	AddArtifact(ctx context.Context, name string) error
}
