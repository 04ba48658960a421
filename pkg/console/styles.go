package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette shared by every program in the repository.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // primary accent
	coralPink   = lipgloss.Color("#FFCCCB") // secondary accent
	mintGreen   = lipgloss.Color("#A8E6CF") // success
	amber       = lipgloss.Color("#FCD34D") // warnings
	errorRed    = lipgloss.Color("#F87171") // failures
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

// styles is bound to one renderer so color detection follows the
// destination writer rather than the process's stdout.
type styles struct {
	header  lipgloss.Style
	section lipgloss.Style
	rule    lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	info    lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	tip     lipgloss.Style
	muted   lipgloss.Style
	key     lipgloss.Style
	box     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Foreground(brightWhite).Bold(true),
		section: r.NewStyle().Foreground(salmonPink).Bold(true),
		rule:    r.NewStyle().Foreground(mutedGray),
		step:    r.NewStyle().Foreground(coralPink),
		success: r.NewStyle().Foreground(mintGreen).Bold(true),
		info:    r.NewStyle().Foreground(brightWhite),
		warning: r.NewStyle().Foreground(amber),
		err:     r.NewStyle().Foreground(errorRed).Bold(true),
		tip:     r.NewStyle().Foreground(mutedGray).Italic(true),
		muted:   r.NewStyle().Foreground(mutedGray),
		key:     r.NewStyle().Foreground(salmonPink),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1),
	}
}
