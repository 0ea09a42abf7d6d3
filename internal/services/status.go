package services

import (
	"path/filepath"
	"strings"

	"grove/internal/domain"
	"grove/internal/logging"
)

// ResolveWorktree maps an event's working directory onto the owning
// worktree: among all known worktree paths that prefix cwd (exactly, or
// followed by a path separator), the longest wins. Agents often report a
// cwd nested inside a worktree subdirectory. When nothing matches, cwd
// itself is used as a synthetic key.
func ResolveWorktree(cwd string, worktrees []string) string {
	best := ""
	for _, path := range worktrees {
		if path == "" {
			continue
		}
		if cwd == path || strings.HasPrefix(cwd, path+string(filepath.Separator)) {
			if len(path) > len(best) {
				best = path
			}
		}
	}
	if best == "" {
		return cwd
	}
	return best
}

// ReduceEvent folds one lifecycle event into the status map, keyed by
// resolved worktree path. The input map is never mutated; a new map is
// returned so replaying the same event list is deterministic.
func ReduceEvent(
	statuses map[string]domain.StatusEntry,
	event domain.LifecycleEvent,
	worktrees []string,
) map[string]domain.StatusEntry {
	next := cloneStatuses(statuses)
	key := ResolveWorktree(event.CWD, worktrees)

	switch event.EventType {
	case domain.EventStart:
		next[key] = domain.StatusEntry{Status: domain.StatusWorking, UpdatedAt: event.Timestamp}
	case domain.EventPermissionRequest:
		next[key] = domain.StatusEntry{Status: domain.StatusPermission, UpdatedAt: event.Timestamp}
	case domain.EventStop:
		next[key] = domain.StatusEntry{Status: domain.StatusReview, UpdatedAt: event.Timestamp}
	case domain.EventSessionEnd:
		delete(next, key)
	default:
		logging.Logger.Warn("Ignoring event with unknown type", "event_type", event.EventType)
	}

	return next
}

// Acknowledge clears a review status when the user activates the worktree,
// modeling "user has seen the result". Other statuses are left alone.
func Acknowledge(statuses map[string]domain.StatusEntry, worktreePath string) map[string]domain.StatusEntry {
	entry, ok := statuses[worktreePath]
	if !ok || entry.Status != domain.StatusReview {
		return statuses
	}
	next := cloneStatuses(statuses)
	delete(next, worktreePath)
	return next
}

// ShouldNotify reports whether the event warrants an external user-facing
// notification. Only permission requests and stops qualify, and only when
// the hosting window does not already have the user's attention. Evaluated
// once per event, never retried.
func ShouldNotify(event domain.LifecycleEvent, hostActive bool) bool {
	if hostActive {
		return false
	}
	return event.EventType == domain.EventPermissionRequest || event.EventType == domain.EventStop
}

func cloneStatuses(statuses map[string]domain.StatusEntry) map[string]domain.StatusEntry {
	next := make(map[string]domain.StatusEntry, len(statuses))
	for k, v := range statuses {
		next[k] = v
	}
	return next
}
