package integration_test

import (
	"path/filepath"
	"testing"

	"grove/test/integration/harness"
)

func TestReposAdd(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)

	result := harness.RunCommand(t, env, "repos", "add", git.RepoPath)
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Added repo")
}

func TestReposAdd_NotARepository(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "repos", "add", t.TempDir())
	harness.AssertFailure(t, result)
	harness.AssertStderrContains(t, result, "is not a git repository")
}

func TestReposAdd_Duplicate(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "repos", "add", git.RepoPath))

	result := harness.RunCommand(t, env, "repos", "add", git.RepoPath)
	harness.AssertFailure(t, result)
}

func TestReposList(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "repos", "add", git.RepoPath))

	result := harness.RunCommand(t, env, "repos", "list")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "repo")
	harness.AssertStdoutContains(t, result, git.RepoPath)
}

func TestReposList_JSON(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "repos", "add", git.RepoPath))

	result := harness.RunCommand(t, env, "repos", "list", "--format", "json")
	harness.AssertSuccess(t, result)

	var repos []map[string]any
	harness.AssertValidJSON(t, result, &repos)
	if len(repos) != 1 {
		t.Fatalf("Expected 1 repository, got %d", len(repos))
	}
}

func TestReposDel(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	git := harness.NewTestGitSetup(t)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "repos", "add", git.RepoPath))

	result := harness.RunCommand(t, env, "repos", "del", "repo")
	harness.AssertSuccess(t, result)

	// Removal only forgets the repository; the filesystem is untouched
	if _, err := filepath.Glob(filepath.Join(git.RepoPath, "README.md")); err != nil {
		t.Fatalf("Repository files should remain on disk: %v", err)
	}

	list := harness.RunCommand(t, env, "repos", "list")
	harness.AssertSuccess(t, list)
	harness.AssertStdoutNotContains(t, list, git.RepoPath)
}

func TestReposDel_Unknown(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "repos", "del", "nope")
	harness.AssertFailure(t, result)
	harness.AssertStderrContains(t, result, "no tracked repository")
}
