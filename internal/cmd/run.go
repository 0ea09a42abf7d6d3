package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"grove/internal/adapters/tail"
	"grove/internal/logging"
	"grove/internal/services"
	"grove/paths"
	"grove/state"
)

// reapInterval is how often the live layout is checked for dead handles
const reapInterval = 2 * time.Second

// RunCmd runs the grove controller: tails the agent event log, keeps the
// per-worktree status map, manages terminal sessions and attaches the
// invoking terminal to the grove tmux session
type RunCmd struct {
	Worktree string `help:"Worktree to activate on startup (defaults to the first known worktree)" optional:""`
	NoAttach bool   `help:"Run the controller without attaching this terminal"`
}

// Run executes the controller
func (r *RunCmd) Run(cli *CLI) error {
	lock, err := state.Acquire(paths.GetLockPath())
	if err != nil {
		if errors.Is(err, state.ErrAlreadyRunning) {
			return err
		}
		return fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	defer lock.Release()

	tailer := tail.New(cli.Container.Settings.GetEventLogPath())
	controller := services.NewController(
		cli.Container.Sessions,
		cli.Container.Repositories,
		tailer,
		cli.Container.Notifier,
		cli.Container.Host,
	)
	controller.SetRefreshInterval(
		time.Duration(cli.Container.Settings.GetRefreshIntervalSeconds()) * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return controller.Run(ctx)
	})

	// Activate the initial worktree once the controller loop is up
	g.Go(func() error {
		worktree := r.Worktree
		if worktree == "" {
			worktrees := controller.Worktrees(ctx)
			if len(worktrees) == 0 {
				logging.Logger.Info("No worktrees known yet; add a repository with 'grove repos add'")
				return nil
			}
			worktree = worktrees[0].Path
		}
		if err := controller.SwitchTo(ctx, worktree); err != nil {
			logging.Logger.Error("Failed to activate initial worktree", "worktree", worktree, "error", err)
		}
		return nil
	})

	// Reap handles whose tmux windows were closed by the user
	g.Go(func() error {
		ticker := time.NewTicker(reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				controller.ReapClosed(ctx)
			}
		}
	})

	if !r.NoAttach {
		g.Go(func() error {
			// The session appears with the first layout; wait briefly
			detached, err := attachWhenReady(ctx, cli)
			if err != nil {
				logging.Logger.Warn("Could not attach to tmux session", "error", err)
				return nil
			}
			select {
			case <-detached:
				// Detaching ends the run; the controller stops with us
				stop()
			case <-ctx.Done():
				cli.Container.Host.Detach()
			}
			return nil
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// attachWhenReady polls until the grove tmux session exists, then attaches
func attachWhenReady(ctx context.Context, cli *CLI) (chan struct{}, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	deadline := time.After(10 * time.Second)
	for {
		if cli.Container.Host.HasSession() {
			return cli.Container.Host.Attach()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("tmux session never appeared")
		case <-ticker.C:
		}
	}
}
