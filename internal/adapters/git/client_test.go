package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grove/internal/domain"
)

// setupTestRepo creates a git repo with an initial commit under a fresh
// parent directory, leaving room for sibling worktrees
func setupTestRepo(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.MkdirAll(dir, 0755))

	runGit := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=Test",
			"GIT_COMMITTER_EMAIL=test@test.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v failed: %s", args, out)
	}

	runGit("init")
	runGit("config", "user.email", "test@test.com")
	runGit("config", "user.name", "Test")

	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Test"), 0644))
	runGit("add", "README.md")
	runGit("commit", "-m", "Initial commit")

	return dir
}

func TestIsRepository_GitRepo(t *testing.T) {
	repoPath := setupTestRepo(t)

	client := NewClient()

	assert.True(t, client.IsRepository(repoPath))
}

func TestIsRepository_PlainDirectory(t *testing.T) {
	client := NewClient()

	assert.False(t, client.IsRepository(t.TempDir()))
}

func TestIsRepository_MissingPath(t *testing.T) {
	client := NewClient()

	assert.False(t, client.IsRepository("/nonexistent/path/nowhere"))
}

func TestListWorktrees_MainOnly(t *testing.T) {
	repoPath := setupTestRepo(t)
	client := NewClient()

	worktrees, err := client.ListWorktrees(repoPath)

	require.NoError(t, err)
	require.Len(t, worktrees, 1)
	assert.True(t, worktrees[0].IsMain)
	assert.NotEmpty(t, worktrees[0].Branch)
	assert.Equal(t, filepath.Base(repoPath), filepath.Base(worktrees[0].Path))
}

func TestListWorktrees_FirstEntryIsMain(t *testing.T) {
	repoPath := setupTestRepo(t)
	client := NewClient()

	_, err := client.AddWorktree(repoPath, "feature-a", "", true)
	require.NoError(t, err)
	_, err = client.AddWorktree(repoPath, "feature-b", "", true)
	require.NoError(t, err)

	worktrees, err := client.ListWorktrees(repoPath)

	require.NoError(t, err)
	require.Len(t, worktrees, 3)
	mainCount := 0
	for _, wt := range worktrees {
		if wt.IsMain {
			mainCount++
		}
	}
	assert.Equal(t, 1, mainCount)
	assert.True(t, worktrees[0].IsMain)
}

func TestListWorktrees_NotARepository(t *testing.T) {
	client := NewClient()

	_, err := client.ListWorktrees(t.TempDir())

	require.Error(t, err)
	var cmdErr *domain.CommandError
	assert.ErrorAs(t, err, &cmdErr)
}

func TestAddWorktree_NewBranchSiblingPath(t *testing.T) {
	repoPath := setupTestRepo(t)
	client := NewClient()

	worktreePath, err := client.AddWorktree(repoPath, "my-feature", "", true)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(repoPath), "my-feature"), worktreePath)
	assert.DirExists(t, worktreePath)
}

func TestAddWorktree_ExistingBranch(t *testing.T) {
	repoPath := setupTestRepo(t)
	client := NewClient()

	// Create the branch without a worktree first
	cmd := exec.Command("git", "branch", "existing")
	cmd.Dir = repoPath
	require.NoError(t, cmd.Run())

	worktreePath, err := client.AddWorktree(repoPath, "existing", "", false)

	require.NoError(t, err)
	assert.DirExists(t, worktreePath)
}

func TestAddWorktree_BranchAlreadyCheckedOut(t *testing.T) {
	repoPath := setupTestRepo(t)
	client := NewClient()

	_, err := client.AddWorktree(repoPath, "dup", "", true)
	require.NoError(t, err)

	// Creating the same branch again must surface the git error
	_, err = client.AddWorktree(repoPath, "dup", "", true)

	require.Error(t, err)
	var cmdErr *domain.CommandError
	assert.ErrorAs(t, err, &cmdErr)
	assert.NotEmpty(t, cmdErr.Output)
}

func TestRemoveWorktree(t *testing.T) {
	repoPath := setupTestRepo(t)
	client := NewClient()

	worktreePath, err := client.AddWorktree(repoPath, "short-lived", "", true)
	require.NoError(t, err)

	require.NoError(t, client.RemoveWorktree(repoPath, worktreePath, false))

	worktrees, err := client.ListWorktrees(repoPath)
	require.NoError(t, err)
	assert.Len(t, worktrees, 1)
}

func TestRemoveWorktree_DirtyNeedsForce(t *testing.T) {
	repoPath := setupTestRepo(t)
	client := NewClient()

	worktreePath, err := client.AddWorktree(repoPath, "dirty", "", true)
	require.NoError(t, err)

	// Untracked file makes the worktree dirty
	junk := filepath.Join(worktreePath, "scratch.txt")
	require.NoError(t, os.WriteFile(junk, []byte("wip"), 0644))

	err = client.RemoveWorktree(repoPath, worktreePath, false)
	require.Error(t, err)

	require.NoError(t, client.RemoveWorktree(repoPath, worktreePath, true))
}

func TestEnvironWithSearchPaths_AppendsMissingEntries(t *testing.T) {
	env := environWithSearchPaths()

	var pathValue string
	for _, entry := range env {
		if len(entry) > 5 && entry[:5] == "PATH=" {
			pathValue = entry[5:]
		}
	}
	require.NotEmpty(t, pathValue)
	for _, p := range extraSearchPaths {
		assert.True(t, containsPathEntry(pathValue, p), "PATH should contain %s", p)
	}
}
