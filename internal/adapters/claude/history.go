// Package claude inspects the Claude CLI's on-disk session state.
package claude

import (
	"os"
	"path/filepath"
	"strings"

	"grove/internal/logging"
)

// HistoryProbe reports whether a worktree has prior Claude conversation
// history, which decides whether a fresh agent launch can pass
// --continue.
type HistoryProbe struct {
	projectsDir string
}

// NewHistoryProbe creates a probe rooted at ~/.claude/projects
func NewHistoryProbe() *HistoryProbe {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logging.Logger.Warn("Could not resolve home directory", "error", err)
		return &HistoryProbe{}
	}
	return &HistoryProbe{projectsDir: filepath.Join(homeDir, ".claude", "projects")}
}

// NewHistoryProbeWithDir creates a probe rooted at a specific projects
// directory, for tests
func NewHistoryProbeWithDir(dir string) *HistoryProbe {
	return &HistoryProbe{projectsDir: dir}
}

// HasHistory reports whether any session transcript exists for the
// worktree. Claude stores transcripts per project directory under
// ~/.claude/projects/<escaped-path>/<session-id>.jsonl.
func (p *HistoryProbe) HasHistory(worktreePath string) bool {
	if p.projectsDir == "" {
		return false
	}

	projectDir := filepath.Join(p.projectsDir, escapeProjectPath(worktreePath))
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return false
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".jsonl") {
			return true
		}
	}
	return false
}

// escapeProjectPath mirrors the Claude CLI's project directory naming,
// which replaces "/" and "." with "-"
func escapeProjectPath(path string) string {
	escaped := strings.ReplaceAll(path, "/", "-")
	return strings.ReplaceAll(escaped, ".", "-")
}
