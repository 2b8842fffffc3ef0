package ui

import (
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nhath/ferrumdb/internal/session"
)

// KeyEvents translates a bubbletea key message into session key events.
// Pasted text and multi-rune messages become one event per rune. Keys the
// session has no use for produce no events.
func KeyEvents(msg tea.KeyMsg) []session.KeyEvent {
	mods := session.ModNone
	if msg.Alt {
		mods |= session.ModAlt
	}
	single := func(k session.Key, m session.Modifiers) []session.KeyEvent {
		return []session.KeyEvent{{Key: k, Mods: m}}
	}

	switch msg.Type {
	case tea.KeyRunes:
		evs := make([]session.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				continue
			}
			evs = append(evs, session.KeyEvent{Key: session.KeyRune, Rune: r, Mods: mods})
		}
		return evs
	case tea.KeySpace:
		return []session.KeyEvent{{Key: session.KeyRune, Rune: ' ', Mods: mods}}
	case tea.KeyEnter:
		return single(session.KeyEnter, mods)
	case tea.KeyCtrlJ:
		// terminals send ctrl+enter as a line feed
		return single(session.KeyEnter, mods|session.ModControl)
	case tea.KeyEsc:
		return single(session.KeyEsc, mods)
	case tea.KeyBackspace, tea.KeyCtrlH:
		return single(session.KeyBackspace, mods)
	case tea.KeyDelete:
		return single(session.KeyDelete, mods)
	case tea.KeyLeft:
		return single(session.KeyLeft, mods)
	case tea.KeyRight:
		return single(session.KeyRight, mods)
	case tea.KeyHome:
		return single(session.KeyHome, mods)
	case tea.KeyEnd:
		return single(session.KeyEnd, mods)
	case tea.KeyTab:
		return nil
	}

	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		r := 'a' + rune(msg.Type-tea.KeyCtrlA)
		return []session.KeyEvent{{Key: session.KeyRune, Rune: r, Mods: mods | session.ModControl}}
	}
	return nil
}

// keyMap documents the bindings of one mode for the help line
type keyMap struct {
	bindings []key.Binding
}

func (k keyMap) ShortHelp() []key.Binding { return k.bindings }

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.bindings} }

var navigationKeys = keyMap{bindings: []key.Binding{
	key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit query")),
	key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "clear results")),
	key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q/ctrl+c", "quit")),
}}

var editingKeys = keyMap{bindings: []key.Binding{
	key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	key.NewBinding(key.WithKeys("ctrl+j", "alt+enter"), key.WithHelp("ctrl/alt+enter", "run and keep editing")),
	key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home/ctrl+a", "line start")),
	key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end/ctrl+e", "line end")),
	key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "navigate")),
}}

func helpKeys(mode session.Mode) keyMap {
	if mode == session.Editing {
		return editingKeys
	}
	return navigationKeys
}
