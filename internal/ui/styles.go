// Package ui provides the interactive terminal interface for stocktalk.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color scheme for one of the two supported modes.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Error      lipgloss.Color
	IsDark     bool
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#e6e6e6"),
		Primary:    lipgloss.Color("#7dc4e4"),
		Accent:     lipgloss.Color("#a6da95"),
		Muted:      lipgloss.Color("#6e738d"),
		Border:     lipgloss.Color("#494d64"),
		Error:      lipgloss.Color("#ed8796"),
		IsDark:     true,
	}
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#24292f"),
		Primary:    lipgloss.Color("#0969da"),
		Accent:     lipgloss.Color("#1a7f37"),
		Muted:      lipgloss.Color("#8c959f"),
		Border:     lipgloss.Color("#d0d7de"),
		Error:      lipgloss.Color("#cf222e"),
		IsDark:     false,
	}
}

// Styles holds the styled components derived from a theme.
type Styles struct {
	Theme Theme

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Sidebar lipgloss.Style

	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	Prompt      lipgloss.Style
	UserText    lipgloss.Style
	BotText     lipgloss.Style
	ErrorText   lipgloss.Style
	ActiveItem  lipgloss.Style
	SidebarItem lipgloss.Style
}

// NewStyles builds the style set for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(theme.Border).
			PaddingRight(1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserText: lipgloss.NewStyle().
			Foreground(theme.Accent),

		BotText: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		ErrorText: lipgloss.NewStyle().
			Foreground(theme.Error),

		ActiveItem: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		SidebarItem: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}
