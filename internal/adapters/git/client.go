package git

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"grove/internal/domain"
	"grove/internal/logging"
	"grove/internal/ports"
)

// extraSearchPaths are appended to PATH for every git invocation so
// package-manager install locations are found even when the inherited
// environment lacks them (launchd and IDE children often do).
var extraSearchPaths = []string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"/usr/bin",
	"/bin",
}

// Client implements ports.GitClient using the local git binary
type Client struct{}

// Verify interface compliance at compile time
var _ ports.GitClient = (*Client)(nil)

// NewClient creates a new Client
func NewClient() *Client {
	return &Client{}
}

// run executes git with the given arguments against repoPath and returns
// the combined stdout/stderr. Non-zero exit surfaces as *domain.CommandError;
// a missing git binary surfaces as domain.ErrGitNotFound.
func run(repoPath string, args ...string) (string, error) {
	full := append([]string{"-C", repoPath}, args...)
	cmd := exec.Command("git", full...)
	cmd.Env = environWithSearchPaths()

	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", domain.ErrGitNotFound
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &domain.CommandError{Args: full, Output: string(output)}
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(full, " "), err)
	}
	return string(output), nil
}

// environWithSearchPaths returns the process environment with the fixed
// extra search paths appended to PATH
func environWithSearchPaths() []string {
	env := os.Environ()
	path := os.Getenv("PATH")
	for _, p := range extraSearchPaths {
		if !containsPathEntry(path, p) {
			path = path + string(os.PathListSeparator) + p
		}
	}
	for i, entry := range env {
		if strings.HasPrefix(entry, "PATH=") {
			env[i] = "PATH=" + path
			return env
		}
	}
	return append(env, "PATH="+path)
}

func containsPathEntry(path, entry string) bool {
	for _, p := range filepath.SplitList(path) {
		if p == entry {
			return true
		}
	}
	return false
}

// IsRepository reports whether path is inside a git repository.
// Any failure (missing git, missing path, not a repo) reads as false.
func (c *Client) IsRepository(path string) bool {
	_, err := run(path, "rev-parse", "--git-dir")
	if err != nil {
		logging.Logger.Debug("Not a git repository", "path", path, "error", err)
		return false
	}
	return true
}

// ListWorktrees enumerates the worktrees of the repository in porcelain
// order. The first entry is tagged as the main worktree.
func (c *Client) ListWorktrees(repoPath string) ([]domain.Worktree, error) {
	output, err := run(repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	worktrees := parseWorktreeList(output)
	logging.Logger.Debug("Listed worktrees", "repo_path", repoPath, "count", len(worktrees))
	return worktrees, nil
}

// AddWorktree creates a worktree and returns its path. With createBranch a
// new branch is created (optionally from base) and the worktree is placed
// as a sibling directory of the repository named after the branch; without
// it, branch must name an existing ref and is checked out in place.
func (c *Client) AddWorktree(repoPath, branch, base string, createBranch bool) (string, error) {
	worktreePath := filepath.Join(filepath.Dir(repoPath), branch)

	args := []string{"worktree", "add"}
	if createBranch {
		args = append(args, "-b", branch, worktreePath)
		if base != "" {
			args = append(args, base)
		}
	} else {
		args = append(args, worktreePath, branch)
	}

	if _, err := run(repoPath, args...); err != nil {
		return "", err
	}

	logging.Logger.Info("Worktree created",
		"repo_path", repoPath,
		"worktree_path", worktreePath,
		"branch", branch,
		"new_branch", createBranch)
	return worktreePath, nil
}

// RemoveWorktree removes the worktree at worktreePath
func (c *Client) RemoveWorktree(repoPath, worktreePath string, force bool) error {
	args := []string{"worktree", "remove", worktreePath}
	if force {
		args = append(args, "--force")
	}

	if _, err := run(repoPath, args...); err != nil {
		return err
	}

	logging.Logger.Info("Worktree removed", "repo_path", repoPath, "worktree_path", worktreePath)
	return nil
}
