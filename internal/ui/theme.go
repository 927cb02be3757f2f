// Package ui renders taskr's own terminal output: the task listing,
// announcements, dry-run command lines and error messages.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the styles used for dispatcher output.
type Theme struct {
	Name        string
	Heading     lipgloss.Style
	Group       lipgloss.Style
	TaskName    lipgloss.Style
	Description lipgloss.Style
	Announce    lipgloss.Style
	Command     lipgloss.Style
	Error       lipgloss.Style
	Prompt      string // prefix for dry-run command lines
}

// DefaultTheme returns the color theme bound to r. The renderer decides the
// color profile, so output to a pipe or file stays plain.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Name:        "default",
		Heading:     r.NewStyle().Bold(true),
		Group:       r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true), // blue
		TaskName:    r.NewStyle().Foreground(lipgloss.Color("34")),            // green
		Description: r.NewStyle().Foreground(lipgloss.Color("242")),           // gray
		Announce:    r.NewStyle().Foreground(lipgloss.Color("214")),           // orange
		Command:     r.NewStyle().Foreground(lipgloss.Color("245")),
		Error:       r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // red
		Prompt:      "$ ",
	}
}

// MonoTheme returns a theme with no styling at all.
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:        "mono",
		Heading:     plain,
		Group:       plain,
		TaskName:    plain,
		Description: plain,
		Announce:    plain,
		Command:     plain,
		Error:       plain,
		Prompt:      "$ ",
	}
}

// ThemeFor picks the theme for a writer: mono when color is disabled,
// otherwise the default theme with a renderer detecting w's capabilities.
func ThemeFor(w io.Writer, noColor bool) Theme {
	if noColor || w == nil {
		return MonoTheme()
	}
	return DefaultTheme(lipgloss.NewRenderer(w))
}
