package cmd

import (
	"fmt"
)

// AttachCmd attaches the invoking terminal to the grove tmux session of a
// controller that is already running (started with --no-attach or
// detached with Ctrl+Q)
type AttachCmd struct{}

// Run executes the attach command
func (a *AttachCmd) Run(cli *CLI) error {
	if !cli.Container.Host.HasSession() {
		return fmt.Errorf("no grove session to attach to; start one with 'grove run'")
	}

	detached, err := cli.Container.Host.Attach()
	if err != nil {
		return fmt.Errorf("failed to attach: %w", err)
	}

	<-detached
	return nil
}
