package config

import (
	"encoding/json"
	"fmt"
	"os"

	"grove/paths"
)

// Defaults applied when settings.json omits a field
const (
	DefaultAgentCommand           = "claude"
	DefaultTmuxSession            = "grove"
	DefaultRefreshIntervalSeconds = 5
)

// Settings represents the structure of $GROVE_HOME/settings.json.
// Pointer fields distinguish "not configured" from an explicit false
// or zero.
type Settings struct {
	AgentCommand           string `json:"agent_command,omitempty"`
	DBPath                 string `json:"db_path,omitempty"`
	Debug                  *bool  `json:"debug,omitempty"`
	EventLogPath           string `json:"event_log_path,omitempty"`
	MaxLogFiles            *int   `json:"max_log_files,omitempty"`
	NotificationsEnabled   *bool  `json:"notifications_enabled,omitempty"`
	RefreshIntervalSeconds *int   `json:"refresh_interval_seconds,omitempty"`
	TmuxSession            string `json:"tmux_session,omitempty"`
}

// GetAgentCommand returns the configured agent command or the default
func (s *Settings) GetAgentCommand() string {
	if s.AgentCommand != "" {
		return s.AgentCommand
	}
	return DefaultAgentCommand
}

// GetDBPath returns the configured database path or the default
func (s *Settings) GetDBPath() string {
	if s.DBPath != "" {
		return s.DBPath
	}
	return paths.GetDBPath()
}

// GetEventLogPath returns the configured event log path or the default
func (s *Settings) GetEventLogPath() string {
	if s.EventLogPath != "" {
		return s.EventLogPath
	}
	return paths.GetEventLogPath()
}

// GetNotificationsEnabled reports whether desktop notifications are on.
// Enabled unless explicitly turned off.
func (s *Settings) GetNotificationsEnabled() bool {
	if s.NotificationsEnabled == nil {
		return true
	}
	return *s.NotificationsEnabled
}

// GetRefreshIntervalSeconds returns the worktree re-enumeration period
func (s *Settings) GetRefreshIntervalSeconds() int {
	if s.RefreshIntervalSeconds == nil || *s.RefreshIntervalSeconds <= 0 {
		return DefaultRefreshIntervalSeconds
	}
	return *s.RefreshIntervalSeconds
}

// GetTmuxSession returns the tmux session name grove manages
func (s *Settings) GetTmuxSession() string {
	if s.TmuxSession != "" {
		return s.TmuxSession
	}
	return DefaultTmuxSession
}

// LoadSettings loads settings from $GROVE_HOME/settings.json (or
// ~/.grove/settings.json if not set).
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	path := paths.GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	// Expand paths that start with ~
	if settings.DBPath != "" {
		settings.DBPath = paths.ExpandPath(settings.DBPath)
	}
	if settings.EventLogPath != "" {
		settings.EventLogPath = paths.ExpandPath(settings.EventLogPath)
	}

	return &settings, nil
}

// SaveSettings saves settings to $GROVE_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := paths.GetSettingsPath()
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
