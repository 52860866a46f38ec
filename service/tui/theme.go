package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette of the transaction page.
type Theme struct {
	Border  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Income  lipgloss.Color
	Expense lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme works on dark and light terminals.
var DefaultTheme = Theme{
	Border:  lipgloss.Color("#4D4C57"),
	Muted:   lipgloss.Color("#858392"),
	Text:    lipgloss.Color("#DFDBDD"),
	Primary: lipgloss.Color("#6B50FF"),
	Accent:  lipgloss.Color("#00CED1"),
	Income:  lipgloss.Color("#00C48C"),
	Expense: lipgloss.Color("#E94090"),
	Error:   lipgloss.Color("#FF5F5F"),
}

type styles struct {
	title   lipgloss.Style
	badge   lipgloss.Style
	active  lipgloss.Style
	muted   lipgloss.Style
	income  lipgloss.Style
	expense lipgloss.Style
	other   lipgloss.Style
	toast   lipgloss.Style
}

func newStyles(t Theme) styles {
	badge := lipgloss.NewStyle().Padding(0, 1).Foreground(t.Muted)
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		badge:   badge,
		active:  badge.Foreground(t.Text).Background(t.Primary).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(t.Muted),
		income:  lipgloss.NewStyle().Foreground(t.Income),
		expense: lipgloss.NewStyle().Foreground(t.Expense),
		other:   lipgloss.NewStyle().Foreground(t.Accent),
		toast:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}
