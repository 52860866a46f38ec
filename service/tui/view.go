package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brojonat/compte/client"
	"github.com/brojonat/compte/service/txpage"
)

const (
	headerHeight = 3
	footerHeight = 2
)

func (m Model) View() string {
	header := m.viewHeader()
	footer := m.viewFooter()
	if !m.ready {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.viewList(), footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

func (m Model) viewportHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		return 1
	}
	return h
}

// withContent refreshes the viewport with the current list.
func (m Model) withContent() Model {
	if m.ready {
		m.viewport.SetContent(m.viewList())
	}
	return m
}

func (m Model) viewHeader() string {
	s := m.styles
	f := m.page.Filter()

	title := s.title.Render("Transactions for IBAN: " + f.IBAN)

	scopes := []string{
		m.badge(string(client.ScopeAccount), f.Scope == client.ScopeAccount),
		m.badge(string(client.ScopeUser), f.Scope == client.ScopeUser),
	}
	categories := []string{
		m.badge(client.LabelAll, f.Category == client.CategoryAll),
		m.badge(client.LabelIncome, f.Category == client.CategoryIncome),
		m.badge(client.LabelExpense, f.Category == client.CategoryExpense),
	}
	badges := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(scopes, ""),
		s.muted.Render("  │  "),
		strings.Join(categories, ""),
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, badges, "")
}

func (m Model) badge(label string, active bool) string {
	if active {
		return m.styles.active.Render(label)
	}
	return m.styles.badge.Render(label)
}

func (m Model) viewList() string {
	s := m.styles
	views := m.page.Views()
	if len(views) == 0 {
		return s.muted.Render(txpage.NoTransactionsMessage)
	}

	lines := make([]string, len(views))
	for i, v := range views {
		amount := v.SignedAmount()
		switch v.Category() {
		case client.CategoryIncome:
			amount = s.income.Render(amount)
		case client.CategoryExpense:
			amount = s.expense.Render(amount)
		}

		date := v.Transaction.Date
		if date == "" {
			date = "-"
		}
		line := fmt.Sprintf("%s  %-19s %s  %s",
			s.muted.Render(fmt.Sprintf("#%-6d", v.Transaction.ID)),
			date,
			lipgloss.NewStyle().Width(12).Align(lipgloss.Right).Render(amount),
			v.Label(),
		)
		if other, ok := v.OtherAccount(); ok {
			line += "  " + s.other.Render(other)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewFooter() string {
	message, _ := m.toast.Current()
	toast := ""
	if message != "" {
		toast = m.styles.toast.Render("✗ " + message)
	}
	return lipgloss.JoinVertical(lipgloss.Left, toast, m.help.View(keys))
}
