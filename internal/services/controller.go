package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"grove/internal/domain"
	"grove/internal/logging"
	"grove/internal/ports"
)

// defaultRefreshInterval bounds how stale the known-worktree set can get
// while grove runs
const defaultRefreshInterval = 5 * time.Second

// Controller owns all mutable state: the status map, the known worktree
// set and the session caches. Every mutation and cache read happens on the
// single goroutine running the command loop; background work (git, the
// tailer, notification delivery) produces closures onto the command
// channel instead of touching state directly.
type Controller struct {
	sessions *SessionManager
	repos    *RepositoryService
	source   ports.EventSource
	notifier ports.Notifier
	host     ports.TerminalHost

	cmds chan func()
	// stopped is closed when the command loop exits, unblocking producers
	// that would otherwise send into a dead channel
	stopped chan struct{}

	refreshInterval time.Duration

	// Owned by the command loop
	statuses  map[string]domain.StatusEntry
	worktrees []domain.Worktree
}

// NewController creates a Controller. The session manager's activation hook
// is wired to the acknowledge rule here.
func NewController(
	sessions *SessionManager,
	repos *RepositoryService,
	source ports.EventSource,
	notifier ports.Notifier,
	host ports.TerminalHost,
) *Controller {
	c := &Controller{
		sessions:        sessions,
		repos:           repos,
		source:          source,
		notifier:        notifier,
		host:            host,
		cmds:            make(chan func(), 128),
		stopped:         make(chan struct{}),
		refreshInterval: defaultRefreshInterval,
		statuses:        make(map[string]domain.StatusEntry),
	}
	sessions.SetOnActivate(func(worktreePath string) {
		c.statuses = Acknowledge(c.statuses, worktreePath)
	})
	return c
}

// SetRefreshInterval overrides the worktree re-enumeration period. Must be
// called before Run.
func (c *Controller) SetRefreshInterval(interval time.Duration) {
	if interval > 0 {
		c.refreshInterval = interval
	}
}

// Run starts the tailer and the command loop and blocks until the context
// is cancelled. The tailer delivers events on its own goroutine; they are
// marshalled onto the command loop before any state is touched.
func (c *Controller) Run(ctx context.Context) error {
	// Initial worktree enumeration happens before the loop starts so the
	// resolver has a known set from the first event on
	worktrees, err := c.repos.AllWorktrees(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate worktrees: %w", err)
	}
	c.worktrees = worktrees

	if err := c.source.Start(c.handleEvent); err != nil {
		return fmt.Errorf("failed to start event source: %w", err)
	}
	defer c.source.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.loop(ctx)
		return nil
	})
	g.Go(func() error {
		c.refreshLoop(ctx)
		return nil
	})

	logging.Logger.Info("Controller running", "worktrees", len(worktrees))
	return g.Wait()
}

// loop is the state goroutine
func (c *Controller) loop(ctx context.Context) {
	defer close(c.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-c.cmds:
			fn()
		}
	}
}

// refreshLoop periodically re-enumerates worktrees off the state goroutine
// and applies the result on it
func (c *Controller) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			worktrees, err := c.repos.AllWorktrees(ctx)
			if err != nil {
				logging.Logger.Warn("Worktree refresh failed", "error", err)
				continue
			}
			c.do(ctx, func() { c.applyWorktrees(worktrees) })
		}
	}
}

// applyWorktrees installs a freshly enumerated worktree set and drops the
// session and status caches of every worktree that vanished from it.
// Repositories and worktrees can be removed by another process while grove
// runs, so the refresh is where cache cleanup happens for those removals.
// Runs on the state goroutine.
func (c *Controller) applyWorktrees(next []domain.Worktree) {
	known := make(map[string]bool, len(next))
	for _, wt := range next {
		known[wt.Path] = true
	}

	var vanished []string
	for _, wt := range c.worktrees {
		if !known[wt.Path] {
			vanished = append(vanished, wt.Path)
		}
	}
	if len(vanished) > 0 {
		logging.Logger.Info("Worktrees removed, dropping caches", "worktrees", vanished)
		c.dropCaches(vanished)
	}

	c.worktrees = next
}

// dropCaches removes session and status entries for the given worktree
// paths. Runs on the state goroutine.
func (c *Controller) dropCaches(paths []string) {
	for _, path := range paths {
		c.sessions.DropWorktree(path)
		delete(c.statuses, path)
	}
}

// do enqueues fn for the state goroutine
func (c *Controller) do(ctx context.Context, fn func()) {
	select {
	case c.cmds <- fn:
	case <-ctx.Done():
	}
}

// call runs fn on the state goroutine and waits for its result
func (c *Controller) call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	c.do(ctx, func() { done <- fn() })
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleEvent is the tailer's subscriber. It runs on the tailer's delivery
// goroutine and immediately re-enters the state goroutine. Once the loop
// has exited the event is discarded; blocking here would wedge the tailer's
// shutdown.
func (c *Controller) handleEvent(event domain.LifecycleEvent) {
	select {
	case c.cmds <- func() { c.applyEvent(event) }:
	case <-c.stopped:
	}
}

// applyEvent folds one event into the status map and fires a notification
// when warranted. Runs on the state goroutine.
func (c *Controller) applyEvent(event domain.LifecycleEvent) {
	c.statuses = ReduceEvent(c.statuses, event, c.worktreePaths())

	if event.EventType != domain.EventPermissionRequest && event.EventType != domain.EventStop {
		return
	}

	// Host activity is a subprocess probe; evaluate it (once, no retry)
	// and deliver off the state goroutine
	worktree := ResolveWorktree(event.CWD, c.worktreePaths())
	go func() {
		if !ShouldNotify(event, c.host.Active()) {
			return
		}
		title, message := notificationContent(event, worktree)
		if err := c.notifier.Notify(title, message); err != nil {
			logging.Logger.Warn("Notification delivery failed", "error", err)
		}
	}()
}

// notificationContent renders a lifecycle event for the user
func notificationContent(event domain.LifecycleEvent, worktree string) (string, string) {
	switch event.EventType {
	case domain.EventPermissionRequest:
		return "Agent needs permission", fmt.Sprintf("Waiting for you in %s", worktree)
	default:
		return "Agent finished", fmt.Sprintf("Result ready for review in %s", worktree)
	}
}

// SwitchTo activates a worktree's layout
func (c *Controller) SwitchTo(ctx context.Context, worktreePath string) error {
	return c.call(ctx, func() error { return c.sessions.SwitchTo(worktreePath) })
}

// OpenTerminal opens a shell next to the focused session of a worktree
func (c *Controller) OpenTerminal(ctx context.Context, worktreePath string) error {
	return c.call(ctx, func() error { return c.sessions.OpenTerminal(worktreePath) })
}

// ResumeSession relaunches a worktree's agent session from a prior
// conversation
func (c *Controller) ResumeSession(ctx context.Context, worktreePath, sessionID string) error {
	return c.call(ctx, func() error { return c.sessions.ResumeSession(worktreePath, sessionID) })
}

// HandleClosed reports a closed session handle and returns the worktree
// that became live, if any
func (c *Controller) HandleClosed(ctx context.Context, handle string) (string, bool) {
	var next string
	var ok bool
	_ = c.call(ctx, func() error {
		next, ok = c.sessions.HandleClosed(handle, c.worktreePaths())
		return nil
	})
	return next, ok
}

// ReapClosed drops live-layout handles whose sessions no longer exist in
// the terminal host. The existence probes run off the state goroutine;
// removals are applied on it.
func (c *Controller) ReapClosed(ctx context.Context) {
	var handles []string
	_ = c.call(ctx, func() error {
		handles = c.sessions.LiveHandles()
		return nil
	})

	var closed []string
	for _, handle := range handles {
		if !c.host.SessionExists(handle) {
			closed = append(closed, handle)
		}
	}
	if len(closed) == 0 {
		return
	}

	_ = c.call(ctx, func() error {
		for _, handle := range closed {
			next, ok := c.sessions.HandleClosed(handle, c.worktreePaths())
			if ok {
				logging.Logger.Debug("Session handle closed", "handle", handle, "live", next)
			}
		}
		return nil
	})
}

// DropWorktrees removes session and status caches for worktrees whose
// repository was removed. Runs synchronously with the removal so no
// orphaned caches persist in read paths.
func (c *Controller) DropWorktrees(ctx context.Context, paths []string) {
	_ = c.call(ctx, func() error {
		c.dropCaches(paths)
		c.worktrees = filterWorktrees(c.worktrees, paths)
		return nil
	})
}

// Statuses returns a snapshot of the status map
func (c *Controller) Statuses(ctx context.Context) map[string]domain.StatusEntry {
	var snapshot map[string]domain.StatusEntry
	_ = c.call(ctx, func() error {
		snapshot = cloneStatuses(c.statuses)
		return nil
	})
	return snapshot
}

// Worktrees returns a snapshot of the known worktree set
func (c *Controller) Worktrees(ctx context.Context) []domain.Worktree {
	var snapshot []domain.Worktree
	_ = c.call(ctx, func() error {
		snapshot = append([]domain.Worktree(nil), c.worktrees...)
		return nil
	})
	return snapshot
}

func (c *Controller) worktreePaths() []string {
	paths := make([]string, 0, len(c.worktrees))
	for _, wt := range c.worktrees {
		paths = append(paths, wt.Path)
	}
	return paths
}

func filterWorktrees(worktrees []domain.Worktree, removed []string) []domain.Worktree {
	drop := make(map[string]bool, len(removed))
	for _, path := range removed {
		drop[path] = true
	}
	kept := worktrees[:0]
	for _, wt := range worktrees {
		if !drop[wt.Path] {
			kept = append(kept, wt)
		}
	}
	return kept
}
