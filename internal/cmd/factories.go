package cmd

import (
	adapterclaude "grove/internal/adapters/claude"
	adaptergit "grove/internal/adapters/git"
	adapternotify "grove/internal/adapters/notify"
	adapterstorage "grove/internal/adapters/storage"
	adaptertmux "grove/internal/adapters/tmux"
	"grove/internal/config"
	"grove/internal/ports"
	"grove/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	Settings *config.Settings

	Git      ports.GitClient
	Host     *adaptertmux.Host
	Notifier ports.Notifier

	Repositories *services.RepositoryService
	Sessions     *services.SessionManager

	// Internal - for cleanup only
	store ports.RepositoryStore
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(settings *config.Settings) (*Container, error) {
	if settings == nil {
		settings = &config.Settings{}
	}

	store, err := adapterstorage.NewSQLiteStore(settings.GetDBPath())
	if err != nil {
		return nil, err
	}

	gitClient := adaptergit.NewClient()
	host := adaptertmux.NewHostWithSession(settings.GetTmuxSession())

	var notifier ports.Notifier = adapternotify.NewDesktopNotifier()
	if !settings.GetNotificationsEnabled() {
		notifier = noopNotifier{}
	}

	sessions := services.NewSessionManager(services.NewSessionStore(), host)
	sessions.SetAgentCommand(settings.GetAgentCommand())
	sessions.SetHistoryProbe(adapterclaude.NewHistoryProbe().HasHistory)

	return &Container{
		Settings:     settings,
		Git:          gitClient,
		Host:         host,
		Notifier:     notifier,
		Repositories: services.NewRepositoryService(gitClient, store),
		Sessions:     sessions,
		store:        store,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// noopNotifier drops notifications when they are disabled in settings
type noopNotifier struct{}

func (noopNotifier) Notify(title, message string) error { return nil }
