package services

import (
	"fmt"
	"regexp"
	"sort"

	"grove/internal/domain"
	"grove/internal/logging"
	"grove/internal/ports"
)

// DefaultAgentCommand is the coding-agent binary launched in new sessions
const DefaultAgentCommand = "claude"

// safeSessionID matches resume identifiers that are safe to pass into a
// launch command. Anything else is rejected outright rather than sanitized;
// the identifier crosses into process launch, so sanitization risk is
// unacceptable.
var safeSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SessionManager owns one terminal layout per worktree and switches the
// live one in and out, preserving focus across switches. All methods run on
// the state goroutine; the terminal host is the only thing touched that
// lives outside it.
type SessionManager struct {
	store *SessionStore
	host  ports.TerminalHost

	// live is the worktree path whose layout is rendered, "" when none
	live string
	// liveFocus tracks the focused handle within the live layout
	liveFocus string

	// agentCommand is the binary launched for agent sessions
	agentCommand string

	// hasHistory reports whether a prior agent session exists for a
	// worktree, deciding resume-or-continue on first visit
	hasHistory func(worktreePath string) bool

	// onActivate runs the acknowledge rule when a worktree becomes live
	onActivate func(worktreePath string)
}

// NewSessionManager creates a SessionManager
func NewSessionManager(store *SessionStore, host ports.TerminalHost) *SessionManager {
	return &SessionManager{
		store:        store,
		host:         host,
		agentCommand: DefaultAgentCommand,
		hasHistory:   func(string) bool { return false },
	}
}

// SetAgentCommand overrides the agent binary
func (m *SessionManager) SetAgentCommand(command string) {
	if command != "" {
		m.agentCommand = command
	}
}

// SetHistoryProbe sets the prior-session probe
func (m *SessionManager) SetHistoryProbe(probe func(worktreePath string) bool) {
	if probe != nil {
		m.hasHistory = probe
	}
}

// SetOnActivate sets the hook invoked whenever a worktree becomes live
func (m *SessionManager) SetOnActivate(hook func(worktreePath string)) {
	m.onActivate = hook
}

// Live returns the currently live worktree path, "" when none
func (m *SessionManager) Live() string {
	return m.live
}

// FocusedHandle returns the focused handle of the live layout
func (m *SessionManager) FocusedHandle() string {
	return m.liveFocus
}

// LiveHandles returns a copy of the live layout's handles, nil when no
// layout is live
func (m *SessionManager) LiveHandles() []string {
	if m.live == "" {
		return nil
	}
	layout := m.store.Layout(m.live)
	if layout.Empty() {
		return nil
	}
	return append([]string(nil), layout.Handles...)
}

// SwitchTo makes the worktree's layout live. The outgoing layout is
// snapshotted and occluded, never destroyed; on return the incoming layout
// is rendering with its recorded focus restored, or a fresh agent session
// when the worktree has never been visited.
func (m *SessionManager) SwitchTo(worktreePath string) error {
	if m.live == worktreePath {
		m.activate(worktreePath)
		return nil
	}

	logging.Logger.Debug("Switching worktree", "from", m.live, "to", worktreePath)

	m.occludeLive()
	m.live = worktreePath
	m.liveFocus = ""
	m.activate(worktreePath)

	layout := m.store.Layout(worktreePath)
	if !layout.Empty() {
		m.reveal(worktreePath, layout)
		return nil
	}

	return m.launchAgentSession(worktreePath)
}

// occludeLive snapshots the outgoing layout's focus and marks every handle
// in it as non-rendering. The processes keep running.
func (m *SessionManager) occludeLive() {
	if m.live == "" {
		return
	}
	layout := m.store.Layout(m.live)
	if layout.Empty() {
		return
	}
	m.store.SetFocus(m.live, m.liveFocus)
	for _, handle := range layout.Handles {
		if err := m.host.SetVisible(handle, false); err != nil {
			logging.Logger.Warn("Failed to occlude session", "handle", handle, "error", err)
		}
	}
}

// reveal installs a cached layout as live and restores its focus. Focus
// restoration is silently skipped when the recorded handle no longer
// exists in the layout.
func (m *SessionManager) reveal(worktreePath string, layout *domain.SessionLayout) {
	for _, handle := range layout.Handles {
		if err := m.host.SetVisible(handle, true); err != nil {
			logging.Logger.Warn("Failed to reveal session", "handle", handle, "error", err)
		}
	}

	focus, ok := m.store.Focus(worktreePath)
	if !ok || !layout.Contains(focus) {
		if len(layout.Handles) > 0 {
			m.liveFocus = layout.Handles[0]
		}
		return
	}
	// The rendering surface attaches before it can accept focus; the host
	// applies focus once the reveal has settled
	if err := m.host.Focus(focus); err != nil {
		logging.Logger.Warn("Failed to restore focus", "handle", focus, "error", err)
	}
	m.liveFocus = focus
}

// launchAgentSession creates the first-visit singleton layout for a
// worktree, resuming the prior agent conversation when one exists
func (m *SessionManager) launchAgentSession(worktreePath string) error {
	command := []string{m.agentCommand}
	if m.hasHistory(worktreePath) {
		command = append(command, "--continue")
	}

	handle, err := m.host.CreateSession(ports.LaunchConfig{
		WorkDir: worktreePath,
		Command: command,
	})
	if err != nil {
		return fmt.Errorf("failed to launch agent session: %w", err)
	}

	m.store.SetLayout(worktreePath, domain.NewSingletonLayout(handle))
	m.liveFocus = handle
	logging.Logger.Info("Agent session launched", "worktree", worktreePath, "handle", handle)
	return nil
}

// OpenTerminal adds a plain shell session next to the focused position of
// the worktree's layout, switching to the worktree first if needed
func (m *SessionManager) OpenTerminal(worktreePath string) error {
	if m.live != worktreePath {
		if err := m.SwitchTo(worktreePath); err != nil {
			return err
		}
	}

	layout := m.store.Layout(worktreePath)
	if layout == nil {
		layout = &domain.SessionLayout{}
		m.store.SetLayout(worktreePath, layout)
	}

	handle, err := m.host.CreateSession(ports.LaunchConfig{WorkDir: worktreePath})
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}

	layout.InsertAfter(m.liveFocus, handle)
	m.liveFocus = handle
	logging.Logger.Info("Terminal opened", "worktree", worktreePath, "handle", handle)
	return nil
}

// ResumeSession replaces the worktree's layout with a single agent session
// resuming the given conversation. Unsafe identifiers fail closed: nothing
// is launched and no layout changes.
func (m *SessionManager) ResumeSession(worktreePath, sessionID string) error {
	if !safeSessionID.MatchString(sessionID) {
		logging.Logger.Warn("Rejected unsafe session id", "worktree", worktreePath)
		return domain.ErrUnsafeSessionID
	}

	if m.live != worktreePath {
		if err := m.SwitchTo(worktreePath); err != nil {
			return err
		}
	}

	// Existing handles of this worktree are occluded, not destroyed; other
	// worktrees' caches are untouched
	if layout := m.store.Layout(worktreePath); !layout.Empty() {
		for _, handle := range layout.Handles {
			if err := m.host.SetVisible(handle, false); err != nil {
				logging.Logger.Warn("Failed to occlude session", "handle", handle, "error", err)
			}
		}
	}

	handle, err := m.host.CreateSession(ports.LaunchConfig{
		WorkDir: worktreePath,
		Command: []string{m.agentCommand, "--resume", sessionID},
	})
	if err != nil {
		return fmt.Errorf("failed to resume session: %w", err)
	}

	m.store.SetLayout(worktreePath, domain.NewSingletonLayout(handle))
	m.store.SetFocus(worktreePath, handle)
	m.liveFocus = handle
	logging.Logger.Info("Session resumed", "worktree", worktreePath, "session_id", sessionID)
	return nil
}

// HandleClosed removes a closed handle from the live layout. When the last
// handle closes, the worktree's caches are dropped and a fallback worktree
// becomes live: first any worktree with a cached layout, then any other
// known worktree. Returns the new live worktree and whether one exists.
func (m *SessionManager) HandleClosed(handle string, known []string) (string, bool) {
	if m.live == "" {
		return "", false
	}

	layout := m.store.Layout(m.live)
	if layout == nil {
		return m.live, true
	}

	layout.Remove(handle)
	if m.liveFocus == handle {
		m.liveFocus = ""
		if len(layout.Handles) > 0 {
			m.liveFocus = layout.Handles[0]
		}
	}
	if !layout.Empty() {
		return m.live, true
	}

	closed := m.live
	m.store.Delete(closed)
	m.live = ""
	m.liveFocus = ""

	if fallback, ok := m.findFallback(closed, known); ok {
		if err := m.SwitchTo(fallback); err != nil {
			logging.Logger.Warn("Failed to switch to fallback worktree", "worktree", fallback, "error", err)
			return "", false
		}
		return fallback, true
	}

	logging.Logger.Info("No worktree left to activate")
	return "", false
}

// DropWorktree removes the caches of a worktree synchronously with its
// removal, occluding and closing any handles it still owns
func (m *SessionManager) DropWorktree(worktreePath string) {
	if layout := m.store.Layout(worktreePath); !layout.Empty() {
		for _, handle := range layout.Handles {
			if err := m.host.CloseSession(handle); err != nil {
				logging.Logger.Warn("Failed to close session", "handle", handle, "error", err)
			}
		}
	}
	m.store.Delete(worktreePath)
	if m.live == worktreePath {
		m.live = ""
		m.liveFocus = ""
	}
}

// findFallback picks the next live worktree: cached layouts win, then any
// other known worktree. Candidates are sorted for determinism.
func (m *SessionManager) findFallback(closed string, known []string) (string, bool) {
	cached := m.store.Paths()
	sort.Strings(cached)
	for _, path := range cached {
		if path != closed && !m.store.Layout(path).Empty() {
			return path, true
		}
	}

	sorted := append([]string(nil), known...)
	sort.Strings(sorted)
	for _, path := range sorted {
		if path != closed {
			return path, true
		}
	}
	return "", false
}

func (m *SessionManager) activate(worktreePath string) {
	if m.onActivate != nil {
		m.onActivate(worktreePath)
	}
}
