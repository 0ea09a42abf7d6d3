package ports

// Notifier delivers a user-facing notification. Delivery is best-effort;
// failures are logged by callers, never propagated into event handling.
type Notifier interface {
	Notify(title, message string) error
}
