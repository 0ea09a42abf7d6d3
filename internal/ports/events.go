package ports

import "grove/internal/domain"

// EventHandler receives decoded lifecycle events one at a time, in file
// order. The source guarantees the handler is never invoked concurrently
// with itself.
type EventHandler func(domain.LifecycleEvent)

// EventSource turns the agent event log into a stream of lifecycle events
type EventSource interface {
	// Start begins watching and delivering events to handler.
	// Idempotent: calling Start on a watching source is a no-op.
	Start(handler EventHandler) error

	// Stop cancels the watch and closes the log handle.
	// Safe to call multiple times.
	Stop()
}
