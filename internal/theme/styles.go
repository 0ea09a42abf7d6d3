package theme

import (
	"github.com/charmbracelet/lipgloss"

	"grove/internal/domain"
)

// Main styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)
)

// Status icon styles
var (
	WorkingIconStyle = lipgloss.NewStyle().
				Foreground(ColorWorking)

	PermissionIconStyle = lipgloss.NewStyle().
				Foreground(ColorPermission)

	ReviewIconStyle = lipgloss.NewStyle().
			Foreground(ColorReview)

	IdleIconStyle = lipgloss.NewStyle().
			Foreground(ColorIdle)
)

// StatusIcon renders the colored symbol for an agent status
func StatusIcon(status domain.AgentStatus) string {
	switch status {
	case domain.StatusWorking:
		return WorkingIconStyle.Render(domain.SymbolWorking)
	case domain.StatusPermission:
		return PermissionIconStyle.Render(domain.SymbolPermission)
	case domain.StatusReview:
		return ReviewIconStyle.Render(domain.SymbolReview)
	default:
		return IdleIconStyle.Render("·")
	}
}
