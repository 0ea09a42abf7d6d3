package git

import (
	"strings"

	"grove/internal/domain"
)

// branchRefPrefix is stripped from porcelain branch values before exposure
const branchRefPrefix = "refs/heads/"

// parseWorktreeList parses `git worktree list --porcelain` output: blocks
// separated by blank lines, each with `worktree <path>`, `HEAD <sha>` and
// either `branch <ref>` or `detached`. Blocks lacking both path and head
// are discarded. The first parsed block is the main worktree; git always
// lists it first, and the parser carries that explicitly rather than
// leaving callers to rely on slice order.
func parseWorktreeList(output string) []domain.Worktree {
	var worktrees []domain.Worktree

	for _, block := range strings.Split(output, "\n\n") {
		wt, ok := parseWorktreeBlock(block)
		if !ok {
			continue
		}
		wt.IsMain = len(worktrees) == 0
		worktrees = append(worktrees, wt)
	}

	return worktrees
}

// parseWorktreeBlock parses one porcelain block. ok is false when the block
// carries neither a path nor a head.
func parseWorktreeBlock(block string) (domain.Worktree, bool) {
	var wt domain.Worktree
	detached := false

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "worktree "):
			wt.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			wt.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			wt.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), branchRefPrefix)
		case line == "detached":
			detached = true
		}
	}

	if wt.Path == "" && wt.Head == "" {
		return domain.Worktree{}, false
	}
	if wt.Branch == "" && detached {
		wt.Branch = domain.DetachedBranch
	}
	return wt, true
}
