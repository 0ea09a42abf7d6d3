package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grove/internal/domain"
)

func event(eventType domain.EventType, cwd string, at time.Time) domain.LifecycleEvent {
	return domain.LifecycleEvent{Timestamp: at, EventType: eventType, CWD: cwd}
}

func TestResolveWorktree_ExactMatch(t *testing.T) {
	worktrees := []string{"/r/a", "/r/b"}

	assert.Equal(t, "/r/a", ResolveWorktree("/r/a", worktrees))
}

func TestResolveWorktree_LongestPrefixWins(t *testing.T) {
	worktrees := []string{"/r/a", "/r/a/sub"}

	assert.Equal(t, "/r/a/sub", ResolveWorktree("/r/a/sub/x", worktrees))
}

func TestResolveWorktree_NestedCwd(t *testing.T) {
	worktrees := []string{"/r/a", "/r/b"}

	assert.Equal(t, "/r/a", ResolveWorktree("/r/a/deep/inside/dir", worktrees))
}

func TestResolveWorktree_PrefixMustEndAtSeparator(t *testing.T) {
	worktrees := []string{"/r/a"}

	// "/r/ab" is not inside "/r/a"
	assert.Equal(t, "/r/ab", ResolveWorktree("/r/ab", worktrees))
}

func TestResolveWorktree_NoMatchUsesCwdVerbatim(t *testing.T) {
	worktrees := []string{"/r/a"}

	assert.Equal(t, "/elsewhere/x", ResolveWorktree("/elsewhere/x", worktrees))
}

func TestReduceEvent_StatusTable(t *testing.T) {
	now := time.Now()
	worktrees := []string{"/r/a"}

	tests := []struct {
		eventType domain.EventType
		expected  domain.AgentStatus
	}{
		{domain.EventStart, domain.StatusWorking},
		{domain.EventPermissionRequest, domain.StatusPermission},
		{domain.EventStop, domain.StatusReview},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			statuses := ReduceEvent(nil, event(tt.eventType, "/r/a", now), worktrees)

			require.Contains(t, statuses, "/r/a")
			assert.Equal(t, tt.expected, statuses["/r/a"].Status)
			assert.Equal(t, now, statuses["/r/a"].UpdatedAt)
		})
	}
}

func TestReduceEvent_SessionEndRemovesEntry(t *testing.T) {
	now := time.Now()
	worktrees := []string{"/r/a"}

	statuses := ReduceEvent(nil, event(domain.EventStart, "/r/a", now), worktrees)
	statuses = ReduceEvent(statuses, event(domain.EventSessionEnd, "/r/a", now), worktrees)

	assert.NotContains(t, statuses, "/r/a")
}

func TestReduceEvent_StatusLifecycle(t *testing.T) {
	now := time.Now()
	worktrees := []string{"/r/a"}

	statuses := map[string]domain.StatusEntry{}
	for _, et := range []domain.EventType{domain.EventStart, domain.EventPermissionRequest, domain.EventStop} {
		statuses = ReduceEvent(statuses, event(et, "/r/a", now), worktrees)
	}

	require.Contains(t, statuses, "/r/a")
	assert.Equal(t, domain.StatusReview, statuses["/r/a"].Status)

	statuses = ReduceEvent(statuses, event(domain.EventSessionEnd, "/r/a", now), worktrees)
	assert.Empty(t, statuses)
}

func TestReduceEvent_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	worktrees := []string{"/r/a"}

	original := map[string]domain.StatusEntry{
		"/r/b": {Status: domain.StatusWorking, UpdatedAt: now},
	}

	_ = ReduceEvent(original, event(domain.EventStart, "/r/a", now), worktrees)

	assert.Len(t, original, 1, "input map must not be mutated")
	assert.NotContains(t, original, "/r/a")
}

func TestReduceEvent_ReplayIsDeterministic(t *testing.T) {
	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	worktrees := []string{"/r/a", "/r/b"}

	events := []domain.LifecycleEvent{
		event(domain.EventStart, "/r/a", base),
		event(domain.EventStart, "/r/b", base.Add(time.Second)),
		event(domain.EventPermissionRequest, "/r/a/sub", base.Add(2*time.Second)),
		event(domain.EventStop, "/r/b", base.Add(3*time.Second)),
		event(domain.EventSessionEnd, "/r/a", base.Add(4*time.Second)),
	}

	replay := func() map[string]domain.StatusEntry {
		statuses := map[string]domain.StatusEntry{}
		for _, ev := range events {
			statuses = ReduceEvent(statuses, ev, worktrees)
		}
		return statuses
	}

	assert.Equal(t, replay(), replay())
}

func TestReduceEvent_UnknownCwdGetsSyntheticKey(t *testing.T) {
	now := time.Now()

	statuses := ReduceEvent(nil, event(domain.EventStart, "/outside/tree", now), []string{"/r/a"})

	require.Contains(t, statuses, "/outside/tree")
	assert.Equal(t, domain.StatusWorking, statuses["/outside/tree"].Status)
}

func TestAcknowledge_ClearsReview(t *testing.T) {
	now := time.Now()
	statuses := map[string]domain.StatusEntry{
		"/r/a": {Status: domain.StatusReview, UpdatedAt: now},
	}

	next := Acknowledge(statuses, "/r/a")

	assert.NotContains(t, next, "/r/a")
	assert.Contains(t, statuses, "/r/a", "input map must not be mutated")
}

func TestAcknowledge_LeavesOtherStatusesAlone(t *testing.T) {
	now := time.Now()
	statuses := map[string]domain.StatusEntry{
		"/r/a": {Status: domain.StatusWorking, UpdatedAt: now},
		"/r/b": {Status: domain.StatusPermission, UpdatedAt: now},
	}

	assert.Contains(t, Acknowledge(statuses, "/r/a"), "/r/a")
	assert.Contains(t, Acknowledge(statuses, "/r/b"), "/r/b")
	assert.Equal(t, statuses, Acknowledge(statuses, "/r/missing"))
}

func TestShouldNotify(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		eventType  domain.EventType
		hostActive bool
		expected   bool
	}{
		{"permission while inactive", domain.EventPermissionRequest, false, true},
		{"stop while inactive", domain.EventStop, false, true},
		{"permission while active", domain.EventPermissionRequest, true, false},
		{"stop while active", domain.EventStop, true, false},
		{"start never notifies", domain.EventStart, false, false},
		{"session end never notifies", domain.EventSessionEnd, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ShouldNotify(event(tt.eventType, "/r/a", now), tt.hostActive)
			assert.Equal(t, tt.expected, result)
		})
	}
}
