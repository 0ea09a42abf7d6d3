package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grove/internal/domain"
)

func TestParseWorktreeList_SingleBlock(t *testing.T) {
	output := "worktree /home/user/repo\nHEAD abc123def\nbranch refs/heads/main\n"

	worktrees := parseWorktreeList(output)

	require.Len(t, worktrees, 1)
	assert.Equal(t, "/home/user/repo", worktrees[0].Path)
	assert.Equal(t, "abc123def", worktrees[0].Head)
	assert.Equal(t, "main", worktrees[0].Branch, "refs/heads/ prefix should be stripped")
	assert.True(t, worktrees[0].IsMain)
}

func TestParseWorktreeList_MainIsFirstAndOnlyFirst(t *testing.T) {
	output := "worktree /repo\nHEAD aaa\nbranch refs/heads/main\n\n" +
		"worktree /repo-feature\nHEAD bbb\nbranch refs/heads/feature\n\n" +
		"worktree /repo-fix\nHEAD ccc\nbranch refs/heads/fix\n"

	worktrees := parseWorktreeList(output)

	require.Len(t, worktrees, 3)
	mainCount := 0
	for _, wt := range worktrees {
		if wt.IsMain {
			mainCount++
		}
	}
	assert.Equal(t, 1, mainCount, "exactly one worktree should be main")
	assert.True(t, worktrees[0].IsMain, "first entry should be main")
	assert.False(t, worktrees[1].IsMain)
	assert.False(t, worktrees[2].IsMain)
}

func TestParseWorktreeList_DetachedHead(t *testing.T) {
	output := "worktree /repo\nHEAD abc123\ndetached\n"

	worktrees := parseWorktreeList(output)

	require.Len(t, worktrees, 1)
	assert.Equal(t, domain.DetachedBranch, worktrees[0].Branch)
}

func TestParseWorktreeList_DiscardsBlockWithoutPathAndHead(t *testing.T) {
	output := "worktree /repo\nHEAD aaa\nbranch refs/heads/main\n\n" +
		"locked\n\n" +
		"worktree /repo-b\nHEAD bbb\nbranch refs/heads/b\n"

	worktrees := parseWorktreeList(output)

	require.Len(t, worktrees, 2)
	assert.Equal(t, "/repo", worktrees[0].Path)
	assert.Equal(t, "/repo-b", worktrees[1].Path)
}

func TestParseWorktreeList_KeepsBlockWithOnlyHead(t *testing.T) {
	// A block with a head but no path is malformed but not discarded
	output := "HEAD abc123\n"

	worktrees := parseWorktreeList(output)

	require.Len(t, worktrees, 1)
	assert.Equal(t, "abc123", worktrees[0].Head)
}

func TestParseWorktreeList_EmptyOutput(t *testing.T) {
	assert.Empty(t, parseWorktreeList(""))
	assert.Empty(t, parseWorktreeList("\n\n"))
}

func TestParseWorktreeList_BranchWithSlashes(t *testing.T) {
	output := "worktree /repo\nHEAD aaa\nbranch refs/heads/feature/deep/name\n"

	worktrees := parseWorktreeList(output)

	require.Len(t, worktrees, 1)
	assert.Equal(t, "feature/deep/name", worktrees[0].Branch)
}
