package domain

import "time"

// AgentStatus represents the displayed status of the agent in a worktree
type AgentStatus string

const (
	StatusWorking    AgentStatus = "working"
	StatusPermission AgentStatus = "permission"
	StatusReview     AgentStatus = "review"
)

// Status symbols (Unicode)
const (
	SymbolWorking    = "●" // Green - agent actively working
	SymbolPermission = "◐" // Red - agent waiting for a permission decision
	SymbolReview     = "○" // Yellow - agent finished, result awaiting review
)

// Symbol returns the display symbol for the status
func (s AgentStatus) Symbol() string {
	switch s {
	case StatusWorking:
		return SymbolWorking
	case StatusPermission:
		return SymbolPermission
	case StatusReview:
		return SymbolReview
	default:
		return " "
	}
}

// StatusEntry is the reduced status of one worktree. Absence of an entry
// means idle / no status.
type StatusEntry struct {
	Status    AgentStatus
	UpdatedAt time.Time
}
