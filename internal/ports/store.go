package ports

import (
	"context"

	"grove/internal/domain"
)

// RepositoryStore persists the list of registered repositories
type RepositoryStore interface {
	// Add registers a repository
	Add(ctx context.Context, repo domain.Repository) error

	// List returns all registered repositories ordered by name
	List(ctx context.Context) ([]domain.Repository, error)

	// Get returns a repository by ID
	Get(ctx context.Context, id string) (*domain.Repository, error)

	// Remove forgets a repository. The filesystem is untouched.
	Remove(ctx context.Context, id string) error

	// Close releases the underlying database handle
	Close() error
}
