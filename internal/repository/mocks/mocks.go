package mocks

import (
	"context"

	"github.com/rpggio/ionview/internal/domain/viewer"
	"github.com/stretchr/testify/mock"
)

// Fetcher is a mock for viewer.Fetcher.
type Fetcher struct {
	mock.Mock
}

func (m *Fetcher) Fetch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Catalog is a mock for viewer.Catalog.
type Catalog struct {
	mock.Mock
}

func (m *Catalog) Has(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}

// Observer is a mock for viewer.Observer.
type Observer struct {
	mock.Mock
}

func (m *Observer) LoadCompleted(res viewer.LoadResult) {
	m.Called(res)
}

func (m *Observer) EventHandled(kind string) {
	m.Called(kind)
}

// ArtifactRepository is a mock for repository.ArtifactRepository.
type ArtifactRepository struct {
	mock.Mock
}

func (m *ArtifactRepository) ListArtifacts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ArtifactRepository) AddArtifact(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
