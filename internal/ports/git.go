package ports

import "grove/internal/domain"

// GitClient queries and mutates git worktrees by shelling out to git.
// All calls are blocking subprocess invocations and must not be issued on
// the state goroutine.
type GitClient interface {
	// IsRepository reports whether path is inside a git repository.
	// Failure reads as false; this never returns an error.
	IsRepository(path string) bool

	// ListWorktrees enumerates the worktrees of the repository.
	// The first entry is the main worktree.
	ListWorktrees(repoPath string) ([]domain.Worktree, error)

	// AddWorktree creates a worktree and returns its path. When
	// createBranch is true a new branch named branch is created
	// (optionally from base); otherwise branch must be an existing ref.
	AddWorktree(repoPath, branch, base string, createBranch bool) (string, error)

	// RemoveWorktree removes the worktree at worktreePath
	RemoveWorktree(repoPath, worktreePath string, force bool) error
}
