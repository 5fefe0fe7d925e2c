// Package tui hosts code views in full-screen Bubble Tea programs.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"

	"codemorph/internal/snippet"
	"codemorph/internal/tui/codeview"
)

// DeckUpdate carries a reloaded deck. Err is set when the reload failed and
// the current snippets stay on screen.
type DeckUpdate struct {
	Items    []snippet.Item
	Theme    string
	Language string
	Err      error
}

type updateMsg DeckUpdate

func waitUpdate(ch <-chan DeckUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return updateMsg(u)
	}
}

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D9534F"))

type playerModel struct {
	view    codeview.Model
	updates <-chan DeckUpdate
	log     *log.Logger
	reload  string // last reload error
}

// Play runs a code view until the user quits. Deck reloads arriving on
// updates replace the snippet list in place; updates may be nil.
func Play(view codeview.Model, updates <-chan DeckUpdate, logger *log.Logger) error {
	m := newPlayer(view, updates, logger)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newPlayer(view codeview.Model, updates <-chan DeckUpdate, logger *log.Logger) playerModel {
	return playerModel{view: view, updates: updates, log: logger}
}

func (m playerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.view.Init()}
	if m.updates != nil {
		cmds = append(cmds, waitUpdate(m.updates))
	}
	return tea.Batch(cmds...)
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(v, m.view.KeyMap().Quit) {
			m.view = m.view.Close()
			return m, tea.Quit
		}
	case updateMsg:
		if v.Err != nil {
			m.log.Warn("deck reload failed", "err", v.Err)
			m.reload = v.Err.Error()
			return m, waitUpdate(m.updates)
		}
		m.log.Info("deck reloaded", "snippets", len(v.Items))
		m.reload = ""
		var c1, c2 tea.Cmd
		m.view, c1 = m.view.SetItems(v.Items)
		m.view, c2 = m.view.SetStyle(v.Theme, v.Language)
		return m, tea.Batch(c1, c2, waitUpdate(m.updates))
	case codeview.IndexChangedMsg:
		m.log.Debug("snippet changed", "index", v.Index)
		return m, nil
	case codeview.AdvancedMsg, codeview.RetreatedMsg:
		return m, nil
	}
	next, cmd := m.view.Update(msg)
	m.view = next.(codeview.Model)
	return m, cmd
}

func (m playerModel) View() string {
	out := m.view.View()
	if m.reload != "" {
		out = errStyle.Render("reload failed: "+m.reload) + "\n" + out
	}
	return out
}
