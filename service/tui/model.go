package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brojonat/compte/service/txpage"
)

// Model is the interactive transaction page. Page state lives in the
// *txpage.Page, so copies of the Model share it.
type Model struct {
	ctx     context.Context
	page    *txpage.Page
	toast   *Toast
	refresh <-chan struct{}

	toastDuration time.Duration
	styles        styles

	// UI state
	width  int
	height int
	ready  bool

	// Components
	viewport viewport.Model
	help     help.Model
}

// Messages

type fetchedMsg struct {
	res txpage.Result
}

type refreshMsg struct{}

type toastExpiredMsg struct {
	id int
}

// Option configures a Model.
type Option func(*Model)

// WithRefresh re-fetches the page every time a value arrives on ch.
func WithRefresh(ch <-chan struct{}) Option {
	return func(m *Model) { m.refresh = ch }
}

// WithToastDuration overrides ToastDuration.
func WithToastDuration(d time.Duration) Option {
	return func(m *Model) { m.toastDuration = d }
}

// WithTheme overrides DefaultTheme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.styles = newStyles(t) }
}

// NewModel creates the page model. toast must be the notifier page reports to.
func NewModel(ctx context.Context, page *txpage.Page, toast *Toast, opts ...Option) Model {
	m := Model{
		ctx:           ctx,
		page:          page,
		toast:         toast,
		toastDuration: ToastDuration,
		styles:        newStyles(DefaultTheme),
		viewport:      newViewport(0, 0),
		help:          help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.page.Mount()), m.waitForRefresh())
}

// Commands

func (m Model) fetch(req txpage.Request) tea.Cmd {
	ctx, page := m.ctx, m.page
	return func() tea.Msg {
		return fetchedMsg{res: page.Do(ctx, req)}
	}
}

func (m Model) waitForRefresh() tea.Cmd {
	if m.refresh == nil {
		return nil
	}
	ch, ctx := m.refresh, m.ctx
	return func() tea.Msg {
		select {
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return refreshMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) expireToast(id int) tea.Cmd {
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// newViewport builds a viewport whose half-page bindings do not collide with
// the category keys.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.KeyMap.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "½ page down"))
	vp.KeyMap.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "½ page up"))
	return vp
}

// Run starts the page in the alternate screen and blocks until the user quits
// or ctx is done.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run transaction page: %w", err)
	}
	return nil
}
