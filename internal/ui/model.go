package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nhath/ferrumdb/internal/config"
	"github.com/nhath/ferrumdb/internal/session"
	"github.com/nhath/ferrumdb/internal/ui/highlight"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Model is the root Bubble Tea model. It owns no session data of its own:
// keys go to the controller and View renders the controller's state.
type Model struct {
	ctx   context.Context
	ctrl  *session.Controller
	label string // connection shown in the status bar

	highlighter *highlight.Highlighter
	help        help.Model

	width, height int
}

// NewModel creates the UI for ctrl. ctx is passed to every query the
// controller runs.
func NewModel(ctx context.Context, ctrl *session.Controller, label string, theme config.Theme) Model {
	hl := highlight.New(theme.Syntax)
	hl.CursorStyle = CursorStyle

	h := help.New()
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(textSecondary)
	h.Styles.ShortDesc = h.Styles.ShortDesc.Foreground(textFaint)

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		label:       label,
		highlighter: hl,
		help:        h,
		width:       defaultWidth,
		height:      defaultHeight,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update feeds key presses to the controller one event at a time. A submitted
// query runs inside this call; bubbletea holds back later keys until it returns.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		for _, ev := range KeyEvents(msg) {
			if m.ctrl.HandleKey(m.ctx, ev) {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}
