package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brojonat/compte/client"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport = newViewport(m.width, m.viewportHeight())
		m.ready = true

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			return m, m.fetch(m.page.ToggleScope())
		case key.Matches(msg, keys.All):
			return m.navigate(client.CategoryAll)
		case key.Matches(msg, keys.Income):
			return m.navigate(client.CategoryIncome)
		case key.Matches(msg, keys.Expense):
			return m.navigate(client.CategoryExpense)
		case key.Matches(msg, keys.Refresh):
			return m, m.fetch(m.page.Refresh())
		}

	case refreshMsg:
		cmds = append(cmds, m.fetch(m.page.Refresh()), m.waitForRefresh())

	case fetchedMsg:
		_, before := m.toast.Current()
		m.page.Apply(msg.res)
		if _, after := m.toast.Current(); after != before {
			cmds = append(cmds, m.expireToast(after))
		}

	case toastExpiredMsg:
		m.toast.Expire(msg.id)
	}

	if m.ready {
		m = m.withContent()
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) navigate(c client.Category) (tea.Model, tea.Cmd) {
	req, changed := m.page.Navigate(m.page.Route().WithCategory(c))
	if !changed {
		return m, nil
	}
	return m, m.fetch(req)
}
