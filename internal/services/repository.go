package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"grove/internal/domain"
	"grove/internal/logging"
	"grove/internal/ports"
)

// RepositoryService manages the registered repository list and the
// worktrees derived from it. Git and store calls block on subprocess and
// database I/O, so callers run these methods off the state goroutine and
// apply the results on it.
type RepositoryService struct {
	git   ports.GitClient
	store ports.RepositoryStore
}

// NewRepositoryService creates a RepositoryService
func NewRepositoryService(git ports.GitClient, store ports.RepositoryStore) *RepositoryService {
	return &RepositoryService{git: git, store: store}
}

// AddRepository registers the repository at path. The path must hold a git
// repository; the name derives from the final path element.
func (s *RepositoryService) AddRepository(ctx context.Context, path string) (domain.Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.Repository{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	if !s.git.IsRepository(abs) {
		return domain.Repository{}, fmt.Errorf("%w: %s", domain.ErrNotARepository, abs)
	}

	repo := domain.Repository{
		ID:   uuid.New().String(),
		Name: filepath.Base(abs),
		Path: abs,
	}

	if err := s.store.Add(ctx, repo); err != nil {
		return domain.Repository{}, fmt.Errorf("failed to persist repository: %w", err)
	}

	logging.Logger.Info("Repository registered", "id", repo.ID, "path", repo.Path)
	return repo, nil
}

// ListRepositories returns all registered repositories
func (s *RepositoryService) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	return s.store.List(ctx)
}

// RemoveRepository forgets a repository. Cache only; the repository and its
// worktrees stay on disk. Returns the worktree paths that belonged to it so
// the caller can drop session and status caches synchronously.
func (s *RepositoryService) RemoveRepository(ctx context.Context, id string) ([]string, error) {
	repo, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var paths []string
	worktrees, err := s.git.ListWorktrees(repo.Path)
	if err != nil {
		// The repository may be gone from disk; removal still proceeds
		logging.Logger.Warn("Failed to enumerate worktrees of removed repository",
			"repo_path", repo.Path, "error", err)
	} else {
		for _, wt := range worktrees {
			paths = append(paths, wt.Path)
		}
	}

	if err := s.store.Remove(ctx, id); err != nil {
		return nil, err
	}

	logging.Logger.Info("Repository removed", "id", id, "path", repo.Path)
	return paths, nil
}

// ListWorktrees enumerates a repository's worktrees, stamped with the
// repository ID. The first entry is the main worktree.
func (s *RepositoryService) ListWorktrees(repo domain.Repository) ([]domain.Worktree, error) {
	worktrees, err := s.git.ListWorktrees(repo.Path)
	if err != nil {
		return nil, err
	}
	for i := range worktrees {
		worktrees[i].RepositoryID = repo.ID
	}
	return worktrees, nil
}

// AllWorktrees enumerates the worktrees of every registered repository.
// Repositories that fail to enumerate are skipped with a warning; a broken
// checkout must not hide the others.
func (s *RepositoryService) AllWorktrees(ctx context.Context) ([]domain.Worktree, error) {
	repos, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var all []domain.Worktree
	for _, repo := range repos {
		worktrees, err := s.ListWorktrees(repo)
		if err != nil {
			logging.Logger.Warn("Skipping repository worktrees", "repo_path", repo.Path, "error", err)
			continue
		}
		all = append(all, worktrees...)
	}
	return all, nil
}

// CreateWorktree creates a worktree for the repository and returns it
func (s *RepositoryService) CreateWorktree(repo domain.Repository, branch, base string, createBranch bool) (domain.Worktree, error) {
	path, err := s.git.AddWorktree(repo.Path, branch, base, createBranch)
	if err != nil {
		return domain.Worktree{}, err
	}
	return domain.Worktree{
		Branch:       branch,
		Path:         path,
		RepositoryID: repo.ID,
	}, nil
}

// DeleteWorktree removes a worktree from the repository
func (s *RepositoryService) DeleteWorktree(repo domain.Repository, worktreePath string, force bool) error {
	return s.git.RemoveWorktree(repo.Path, worktreePath, force)
}
