package tmux

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"grove/internal/logging"
	"grove/internal/ports"
)

// DefaultSessionName is the tmux session that carries all grove windows
const DefaultSessionName = "grove"

// Host implements ports.TerminalHost on top of a tmux server. Every
// handle is a tmux window id (e.g. "@3") inside one shared session, so
// switching worktrees is window selection and occluded sessions keep
// running detached.
type Host struct {
	session string
	mu      sync.Mutex

	attach attachmentState
}

// Compile-time interface verification
var _ ports.TerminalHost = (*Host)(nil)

// NewHost creates a Host managing windows in the default grove session
func NewHost() *Host {
	return &Host{session: DefaultSessionName}
}

// NewHostWithSession creates a Host bound to a specific tmux session name
func NewHostWithSession(session string) *Host {
	return &Host{session: session}
}

// CreateSession starts a new tmux window running cfg.Command and returns
// its window id as the handle
func (h *Host) CreateSession(cfg ports.LaunchConfig) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	logging.Logger.Info("Creating terminal session",
		"workdir", cfg.WorkDir,
		"command", strings.Join(cfg.Command, " "),
	)

	var args []string
	if h.sessionExists() {
		args = []string{"new-window", "-d", "-t", h.session + ":", "-P", "-F", "#{window_id}"}
	} else {
		args = []string{"new-session", "-d", "-s", h.session, "-P", "-F", "#{window_id}"}
	}

	if cfg.WorkDir != "" {
		args = append(args, "-c", cfg.WorkDir)
	}
	for _, key := range sortedKeys(cfg.Env) {
		args = append(args, "-e", key+"="+cfg.Env[key])
	}

	// The argv is handed to tmux as separate arguments, never joined
	// into a shell string
	command := cfg.Command
	if len(command) == 0 {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "bash"
		}
		command = []string{shell}
	}
	args = append(args, command...)

	output, err := exec.Command("tmux", args...).Output()
	if err != nil {
		return "", fmt.Errorf("failed to create tmux window: %w", err)
	}

	handle := strings.TrimSpace(string(output))
	if handle == "" {
		return "", fmt.Errorf("tmux returned no window id")
	}

	logging.Logger.Info("Terminal session created", "handle", handle)
	return handle, nil
}

// CloseSession kills the tmux window behind the handle. Killing the last
// window tears down the session as well, which is fine.
func (h *Host) CloseSession(handle string) error {
	cmd := exec.Command("tmux", "kill-window", "-t", handle)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to close session %s: %w (output: %s)", handle, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// SetVisible reveals or occludes the window. tmux renders exactly one
// window per client, so revealing selects the window and occluding is a
// no-op; a deselected window keeps its process running.
func (h *Host) SetVisible(handle string, visible bool) error {
	if !visible {
		return nil
	}
	cmd := exec.Command("tmux", "select-window", "-t", handle)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to reveal session %s: %w", handle, err)
	}
	return nil
}

// Focus directs key input to the window
func (h *Host) Focus(handle string) error {
	cmd := exec.Command("tmux", "select-window", "-t", handle)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to focus session %s: %w", handle, err)
	}
	return nil
}

// SessionExists reports whether the window id is still alive
func (h *Host) SessionExists(handle string) bool {
	output, err := exec.Command("tmux", "list-windows", "-t", h.session+":", "-F", "#{window_id}").Output()
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(output), "\n") {
		if strings.TrimSpace(line) == handle {
			return true
		}
	}
	return false
}

// Active reports whether a client is currently attached to the grove
// session. An attached client is looking at the terminal, so
// notifications for it would be redundant.
func (h *Host) Active() bool {
	output, err := exec.Command("tmux", "list-clients", "-t", h.session, "-F", "#{client_tty}").Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) != ""
}

// HasSession reports whether the grove tmux session exists yet
func (h *Host) HasSession() bool {
	return h.sessionExists()
}

func (h *Host) sessionExists() bool {
	cmd := exec.Command("tmux", "has-session", "-t", h.session)
	return cmd.Run() == nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
