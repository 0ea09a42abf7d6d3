package domain

// DetachedBranch is the branch value reported for a detached HEAD worktree
const DetachedBranch = "(detached)"

// Worktree is a single git worktree, identified by its absolute path.
// Worktrees are always derived from a git query, never constructed by hand.
type Worktree struct {
	Branch       string
	Head         string
	IsMain       bool
	Path         string
	RepositoryID string
}
