package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"grove/test/integration/harness"
)

func TestWorktreesList(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "repos", "add", git.RepoPath))

	result := harness.RunCommand(t, env, "worktrees", "list")
	harness.AssertSuccess(t, result)
	// The main worktree is always present
	harness.AssertStdoutContains(t, result, git.RepoPath)
	harness.AssertStdoutContains(t, result, "✓")
}

func TestWorktreesAdd(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "repos", "add", git.RepoPath))

	result := harness.RunCommand(t, env, "worktrees", "add", "repo", "feature-x")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "feature-x")

	// Worktrees are created as siblings of the repository root
	expected := filepath.Join(filepath.Dir(git.RepoPath), "feature-x")
	if _, err := os.Stat(expected); err != nil {
		t.Fatalf("Expected worktree at %s: %v", expected, err)
	}

	list := harness.RunCommand(t, env, "worktrees", "list")
	harness.AssertSuccess(t, list)
	harness.AssertStdoutContains(t, list, "feature-x")
}

func TestWorktreesAdd_ExistingBranch(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)
	git.CreateBranch("existing")

	harness.AssertSuccess(t, harness.RunCommand(t, env, "repos", "add", git.RepoPath))

	result := harness.RunCommand(t, env, "worktrees", "add", "repo", "existing", "--existing")
	harness.AssertSuccess(t, result)
}

func TestWorktreesDel(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "repos", "add", git.RepoPath))
	harness.AssertSuccess(t, harness.RunCommand(t, env, "worktrees", "add", "repo", "feature-y"))

	worktreePath := filepath.Join(filepath.Dir(git.RepoPath), "feature-y")
	result := harness.RunCommand(t, env, "worktrees", "del", "repo", worktreePath)
	harness.AssertSuccess(t, result)

	if _, err := os.Stat(worktreePath); !os.IsNotExist(err) {
		t.Fatalf("Expected worktree %s to be removed", worktreePath)
	}
}

func TestWorktreesDel_DirtyNeedsForce(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "repos", "add", git.RepoPath))
	harness.AssertSuccess(t, harness.RunCommand(t, env, "worktrees", "add", "repo", "feature-z"))

	worktreePath := filepath.Join(filepath.Dir(git.RepoPath), "feature-z")
	dirty := filepath.Join(worktreePath, "uncommitted.txt")
	if err := os.WriteFile(dirty, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to dirty worktree: %v", err)
	}

	// git refuses without --force
	harness.AssertFailure(t, harness.RunCommand(t, env, "worktrees", "del", "repo", worktreePath))

	harness.AssertSuccess(t, harness.RunCommand(t, env, "worktrees", "del", "repo", worktreePath, "--force"))
}
