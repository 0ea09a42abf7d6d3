package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"grove/internal/cmd"
	"grove/internal/config"
	"grove/internal/version"
)

// Tagline is the application's tagline used in help text
const Tagline = "Work across many git worktrees, each with its own agent session, from one place"

func main() {
	// Load settings from $GROVE_HOME/settings.json
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load settings: %v\n", err)
		settings = &config.Settings{} // Use empty settings
	}

	// Parse CLI arguments with Kong
	// Container is created in CLI.AfterApply() after logging is initialized
	var cli cmd.CLI
	cli.SetSettings(settings) // Set settings before parsing
	ctx := kong.Parse(&cli,
		kong.Name("grove"),
		kong.Description(Tagline),
		kong.Vars{
			"version": version.Info(),
		},
		kong.UsageOnError(),
		kong.Bind(&cli),
	)
	defer cli.Close()

	// Execute the selected command
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
