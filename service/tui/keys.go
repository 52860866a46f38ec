package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	All     key.Binding
	Income  key.Binding
	Expense key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Toggle:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "account/user")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
	Income:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "revenue")),
	Expense: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dépenses")),
	Refresh: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.All, k.Income, k.Expense, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
