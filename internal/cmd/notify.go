package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"grove/internal/domain"
	"grove/internal/logging"
)

// NotifyCmd appends one agent lifecycle event to the event log. It is the
// endpoint agent hooks invoke; any process may append, this command just
// guarantees a well-formed line.
type NotifyCmd struct {
	EventType string `arg:"" help:"Event type: start, stop, permissionRequest, sessionEnd" enum:"start,stop,permissionRequest,sessionEnd"`
	CWD       string `help:"Working directory of the agent session (defaults to the current directory)" optional:""`
}

// Run executes the notify command
func (n *NotifyCmd) Run(cli *CLI) error {
	cwd := n.CWD
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		cwd = wd
	}

	event := domain.LifecycleEvent{
		Timestamp: time.Now().UTC(),
		EventType: domain.EventType(n.EventType),
		CWD:       cwd,
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	logPath := cli.Container.Settings.GetEventLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create event log directory: %w", err)
	}

	// O_APPEND keeps concurrent hook processes from interleaving lines
	file, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	logging.Logger.Debug("Event appended", "event_type", n.EventType, "cwd", cwd)
	return nil
}
