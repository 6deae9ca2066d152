package callbacks

import "github.com/charmbracelet/lipgloss"

// RichTheme holds the lipgloss styles used by the rich display variants.
type RichTheme struct {
	Description lipgloss.Style
	BarComplete lipgloss.Style
	BarPending  lipgloss.Style
	Metrics     lipgloss.Style
	Time        lipgloss.Style
}

// DefaultRichTheme returns the standard color theme for rich rendering.
func DefaultRichTheme() RichTheme {
	return RichTheme{
		Description: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		BarComplete: lipgloss.NewStyle().Foreground(lipgloss.Color("#6206E0")),
		BarPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
		Metrics:     lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Time:        lipgloss.NewStyle().Foreground(lipgloss.Color("#AF87FF")),
	}
}

// RichProgressBar is the enhanced progress display. It redraws once per
// step and does not support a custom refresh rate; the trainer falls back
// to the plain ProgressBar when one is requested.
type RichProgressBar struct {
	Base

	Theme RichTheme
}

// NewRichProgressBar returns a rich progress display with the default
// theme.
func NewRichProgressBar() *RichProgressBar {
	return &RichProgressBar{Theme: DefaultRichTheme()}
}

func (p *RichProgressBar) Kind() Kind { return KindProgressBar }

func (p *RichProgressBar) RefreshRate() int { return 1 }
