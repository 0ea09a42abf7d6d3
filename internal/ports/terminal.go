package ports

// LaunchConfig carries everything needed to start a terminal session.
// WorkDir and Command are opaque data handed to the terminal engine as-is;
// they are never interpolated into a shell string.
type LaunchConfig struct {
	// WorkDir is the working directory for the session process
	WorkDir string

	// Command is the argv to run. Empty means the user's login shell.
	Command []string

	// Env holds environment variable overrides for the session process
	Env map[string]string
}

// TerminalHost is the terminal-emulation engine boundary. It exclusively
// owns key input, rendering and process PTYs; grove only creates handles
// and toggles their visibility and focus.
type TerminalHost interface {
	// CreateSession starts a new terminal session and returns its handle
	CreateSession(cfg LaunchConfig) (string, error)

	// CloseSession terminates the session behind the handle
	CloseSession(handle string) error

	// SetVisible marks the session as rendering or occluded. Occlusion is
	// a display signal only; the underlying process keeps running.
	SetVisible(handle string, visible bool) error

	// Focus directs key input to the session
	Focus(handle string) error

	// SessionExists reports whether the handle is still alive
	SessionExists(handle string) bool

	// Active reports whether the hosting window is frontmost and has key
	// input, used to suppress notifications the user would already see
	Active() bool
}
