package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary Color = "99" // Purple - app name, titles
)

// Agent status colors
const (
	ColorWorking    Color = "2" // Green - agent working
	ColorPermission Color = "1" // Red - waiting for a permission decision
	ColorReview     Color = "3" // Yellow - result awaiting review
	ColorIdle       Color = "8" // Gray - no status
)

// UI semantic colors
const (
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
)
