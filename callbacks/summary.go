package callbacks

import "github.com/charmbracelet/lipgloss"

// MaxDepthFull renders the module hierarchy without a depth limit.
const MaxDepthFull = -1

// ModelSummary prints the model's module hierarchy at the start of
// training, down to a maximum nesting depth.
type ModelSummary struct {
	Base

	maxDepth int
}

// NewModelSummary returns a summary callback. maxDepth of MaxDepthFull
// means unlimited nesting.
func NewModelSummary(maxDepth int) *ModelSummary {
	return &ModelSummary{maxDepth: maxDepth}
}

func (m *ModelSummary) Kind() Kind { return KindModelSummary }

// MaxDepth returns the maximum nesting depth rendered.
func (m *ModelSummary) MaxDepth() int { return m.maxDepth }

// SummaryStyles holds the lipgloss styles for the rich summary table.
type SummaryStyles struct {
	Header lipgloss.Style
	Border lipgloss.Style
	Cell   lipgloss.Style
}

// RichModelSummary renders the summary as a styled table. It is selected
// automatically when the rich progress display is active.
type RichModelSummary struct {
	ModelSummary

	Styles SummaryStyles
}

// NewRichModelSummary returns a rich summary callback with the default
// table styles.
func NewRichModelSummary(maxDepth int) *RichModelSummary {
	return &RichModelSummary{
		ModelSummary: ModelSummary{maxDepth: maxDepth},
		Styles: SummaryStyles{
			Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6206E0")),
			Border: lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")),
			Cell:   lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")),
		},
	}
}
