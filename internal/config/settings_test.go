package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withGroveHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("GROVE_HOME", home)
	return home
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	withGroveHome(t)

	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, DefaultAgentCommand, settings.GetAgentCommand())
	assert.Equal(t, DefaultTmuxSession, settings.GetTmuxSession())
	assert.Equal(t, DefaultRefreshIntervalSeconds, settings.GetRefreshIntervalSeconds())
	assert.True(t, settings.GetNotificationsEnabled())
}

func TestLoadSettings_ReadsFile(t *testing.T) {
	home := withGroveHome(t)

	content := `{
  "agent_command": "claude-dev",
  "tmux_session": "work",
  "notifications_enabled": false,
  "refresh_interval_seconds": 10
}`
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte(content), 0644))

	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "claude-dev", settings.GetAgentCommand())
	assert.Equal(t, "work", settings.GetTmuxSession())
	assert.False(t, settings.GetNotificationsEnabled())
	assert.Equal(t, 10, settings.GetRefreshIntervalSeconds())
}

func TestLoadSettings_InvalidJSON(t *testing.T) {
	home := withGroveHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte("{nope"), 0644))

	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestLoadSettings_ExpandsPaths(t *testing.T) {
	home := withGroveHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"),
		[]byte(`{"db_path": "~/custom/grove.db"}`), 0644))

	settings, err := LoadSettings()
	require.NoError(t, err)

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "custom", "grove.db"), settings.GetDBPath())
}

func TestSettings_PathDefaults(t *testing.T) {
	home := withGroveHome(t)

	settings := &Settings{}
	assert.Equal(t, filepath.Join(home, "repositories.db"), settings.GetDBPath())
	assert.Equal(t, filepath.Join(home, "agent-events.jsonl"), settings.GetEventLogPath())
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	withGroveHome(t)

	enabled := false
	require.NoError(t, SaveSettings(&Settings{
		AgentCommand:         "claude",
		NotificationsEnabled: &enabled,
	}))

	loaded, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "claude", loaded.AgentCommand)
	assert.False(t, loaded.GetNotificationsEnabled())
}
