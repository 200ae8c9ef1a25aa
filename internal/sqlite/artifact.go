package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/ionview/internal/repository"
)

// ArtifactRepository implements repository.ArtifactRepository for SQLite
type ArtifactRepository struct {
	db *DB
}

// NewArtifactRepository creates a new ArtifactRepository
func NewArtifactRepository(db *DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// AddArtifact registers a structure file name
func (r *ArtifactRepository) AddArtifact(ctx context.Context, name string) error {
	if name == "" {
		return repository.ErrInvalidInput
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO artifacts (name) VALUES (?)`, name)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to add artifact: %w", err)
	}

	return nil
}

// ListArtifacts returns all registered names in order
func (r *ArtifactRepository) ListArtifacts(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM artifacts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artifacts: %w", err)
	}

	return names, nil
}
