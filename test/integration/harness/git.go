package harness

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestGitSetup holds paths for a git test environment: a repository with an
// initial commit, ready for worktree creation.
type TestGitSetup struct {
	RepoPath string
	tb       testing.TB
}

// NewTestGitSetup creates a repository with one commit so branches and
// worktrees can be created.
func NewTestGitSetup(tb testing.TB) *TestGitSetup {
	tb.Helper()

	repoPath := filepath.Join(tb.TempDir(), "repo")
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		tb.Fatalf("Failed to create repo directory: %v", err)
	}

	runGitCommand(tb, repoPath, "init")
	runGitCommand(tb, repoPath, "config", "user.email", "test@example.com")
	runGitCommand(tb, repoPath, "config", "user.name", "Test User")

	readme := filepath.Join(repoPath, "README.md")
	if err := os.WriteFile(readme, []byte("# Test Repo\n"), 0644); err != nil {
		tb.Fatalf("Failed to create dummy file: %v", err)
	}
	runGitCommand(tb, repoPath, "add", "README.md")
	runGitCommand(tb, repoPath, "commit", "-m", "Initial commit")

	return &TestGitSetup{RepoPath: repoPath, tb: tb}
}

// CreateBranch creates a branch in the repository.
func (g *TestGitSetup) CreateBranch(name string) {
	g.tb.Helper()
	runGitCommand(g.tb, g.RepoPath, "branch", name)
}

// CreateWorktree creates a git worktree at the given path for the branch.
// Returns the full path to the created worktree.
func (g *TestGitSetup) CreateWorktree(path, branch string) string {
	g.tb.Helper()

	g.CreateBranch(branch)
	runGitCommand(g.tb, g.RepoPath, "worktree", "add", path, branch)

	return path
}

// runGitCommand executes a git command in the specified directory.
func runGitCommand(tb testing.TB, dir string, args ...string) {
	tb.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		tb.Fatalf("git %v failed in %s: %v\nOutput: %s", args, dir, err, output)
	}
}
