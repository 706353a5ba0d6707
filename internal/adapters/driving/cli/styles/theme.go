// Package styles provides colour themes and styling for terminal output.
package styles

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme defines the colour palette for terminal output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Style is a lipgloss style that can be switched off.
// A plain style returns text unchanged, without the line padding
// lipgloss applies to multi-line blocks.
type Style struct {
	lipgloss.Style
	plain bool
}

// Render applies the style to the joined strings.
func (s Style) Render(strs ...string) string {
	if s.plain {
		return strings.Join(strs, " ")
	}
	return s.Style.Render(strs...)
}

// Styles contains pre-configured styles for layout output.
type Styles struct {
	// Heading is used for document and section headings.
	Heading Style

	// Page is used for page markers.
	Page Style

	// Title is used for detected page titles.
	Title Style

	// Chunk frames one paragraph.
	Chunk Style

	// Muted is for less important text.
	Muted Style

	// Key is used for setting names.
	Key Style

	// Success is used for confirmations.
	Success Style

	// Warning is used for pages without content.
	Warning Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Heading: Style{Style: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary)},

		Page: Style{Style: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary)},

		Title: Style{Style: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(theme.Foreground)},

		Chunk: Style{Style: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Border).
			PaddingLeft(1)},

		Muted: Style{Style: lipgloss.NewStyle().
			Foreground(theme.Muted)},

		Key: Style{Style: lipgloss.NewStyle().
			Foreground(theme.Secondary)},

		Success: Style{Style: lipgloss.NewStyle().
			Foreground(theme.Success)},

		Warning: Style{Style: lipgloss.NewStyle().
			Foreground(theme.Warning)},
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := Style{Style: lipgloss.NewStyle(), plain: true}
	return &Styles{
		Heading: plain,
		Page:    plain,
		Title:   plain,
		Chunk:   plain,
		Muted:   plain,
		Key:     plain,
		Success: plain,
		Warning: plain,
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// For returns coloured styles when w is a terminal and plain styles otherwise.
func For(w io.Writer) *Styles {
	if IsTerminal(w) {
		return NewStyles(nil)
	}
	return PlainStyles()
}
