package paths

import (
	"os"
	"path/filepath"
)

// GetGroveHome returns GROVE_HOME or ~/.grove default
func GetGroveHome() string {
	groveHome := os.Getenv("GROVE_HOME")
	if groveHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".grove"
		}
		return filepath.Join(homeDir, ".grove")
	}
	return ExpandPath(groveHome)
}

// GetDBPath returns $GROVE_HOME/repositories.db
func GetDBPath() string {
	return filepath.Join(GetGroveHome(), "repositories.db")
}

// GetEventLogPath returns $GROVE_HOME/agent-events.jsonl
func GetEventLogPath() string {
	return filepath.Join(GetGroveHome(), "agent-events.jsonl")
}

// GetSettingsPath returns $GROVE_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetGroveHome(), "settings.json")
}

// GetLockPath returns $GROVE_HOME/grove.lock
func GetLockPath() string {
	return filepath.Join(GetGroveHome(), "grove.lock")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
