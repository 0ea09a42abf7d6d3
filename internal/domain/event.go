package domain

import "time"

// EventType classifies an agent lifecycle event
type EventType string

const (
	EventStart             EventType = "start"
	EventPermissionRequest EventType = "permissionRequest"
	EventStop              EventType = "stop"
	EventSessionEnd        EventType = "sessionEnd"
)

// Valid reports whether the event type is one grove understands
func (t EventType) Valid() bool {
	switch t {
	case EventStart, EventPermissionRequest, EventStop, EventSessionEnd:
		return true
	}
	return false
}

// LifecycleEvent is one decoded line of the agent event log.
// Events are ordered by file position, not necessarily by timestamp.
// Unknown extra fields on the wire are ignored.
type LifecycleEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType EventType `json:"eventType"`
	CWD       string    `json:"cwd"`
}
