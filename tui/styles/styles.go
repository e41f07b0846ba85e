package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7C3AED") // Purple
	AccentColor  = lipgloss.Color("#F59E0B") // Amber

	BullColor    = lipgloss.Color("#10B981") // Green
	BearColor    = lipgloss.Color("#EF4444") // Red
	NeutralColor = lipgloss.Color("#6B7280") // Gray

	BackgroundColor = lipgloss.Color("#1F2937")
	BorderColor     = lipgloss.Color("#374151")

	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondaryColor)

	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)
)

// Text styles
var (
	BullStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BullColor)

	BearStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BearColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	PriceUpStyle = lipgloss.NewStyle().
			Foreground(BullColor)

	PriceDownStyle = lipgloss.NewStyle().
			Foreground(BearColor)

	NewsNormalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	NewsImportantStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(AccentColor)

	ChartAxisStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(BackgroundColor).
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)
)

// RenderTitle renders a panel title bar.
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

// Signed renders a float with the bull/bear color for its sign.
func Signed(v float64, format string) string {
	s := fmt.Sprintf(format, v)
	switch {
	case v > 0:
		return PriceUpStyle.Render(s)
	case v < 0:
		return PriceDownStyle.Render(s)
	default:
		return MutedStyle.Render(s)
	}
}
