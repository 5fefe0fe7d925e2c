// Package demo is the tabbed showcase of the code view.
package demo

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"codemorph/internal/highlight"
	"codemorph/internal/tui/codeview"
	"codemorph/internal/tui/state"
	"codemorph/internal/tui/util"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	tabStyle    = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

var (
	nextTab = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next demo"))
	prevTab = key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous demo"))
)

type model struct {
	sections []Section
	views    []codeview.Model
	active   int
	step     int // index owned by the custom-controls section
	noColor  bool
	log      *log.Logger
	width    int
}

// Run shows the showcase until the user quits.
func Run(cache *highlight.Cache, logger *log.Logger, noColor bool) error {
	m := newModel(Sections(), cache, logger, noColor)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(sections []Section, cache *highlight.Cache, logger *log.Logger, noColor bool) model {
	m := model{sections: sections, noColor: noColor, log: logger}
	for _, s := range sections {
		o := codeview.DefaultOptions()
		o.NoColor = noColor
		o.Logger = logger
		if s.Configure != nil {
			s.Configure(&o)
		}
		if s.Custom {
			idx := m.step
			o.Controlled = &idx
		}
		m.views = append(m.views, codeview.New(s.Items, cache, o))
	}
	return m
}

func (m model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.views))
	for _, v := range m.views {
		cmds = append(cmds, v.Init())
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(v, m.views[m.active].KeyMap().Quit):
			for i := range m.views {
				m.views[i] = m.views[i].Close()
			}
			return m, tea.Quit
		case key.Matches(v, nextTab):
			m.active = (m.active + 1) % len(m.views)
			return m, nil
		case key.Matches(v, prevTab):
			m.active = (m.active - 1 + len(m.views)) % len(m.views)
			return m, nil
		}
		return m, m.route(m.active, msg)

	case tea.WindowSizeMsg:
		m.width = v.Width
		inner := tea.WindowSizeMsg{Width: v.Width, Height: max(1, v.Height-4)}
		return m, m.broadcast(inner)

	case codeview.IndexChangedMsg:
		i := m.custom()
		if i < 0 || v.Source != m.views[i].ID() {
			return m, nil
		}
		// Requests are applied clamped, as a host with its own buttons would.
		m.step = state.Clamp(v.Index, m.views[i].Count())
		var cmd tea.Cmd
		m.views[i], cmd = m.views[i].SetIndex(m.step)
		return m, cmd

	case codeview.AdvancedMsg, codeview.RetreatedMsg:
		return m, nil
	}
	return m, m.broadcast(msg)
}

// route hands msg to one view.
func (m *model) route(i int, msg tea.Msg) tea.Cmd {
	next, cmd := m.views[i].Update(msg)
	m.views[i] = next.(codeview.Model)
	return cmd
}

// broadcast hands msg to every view. Views drop messages addressed to
// another instance.
func (m *model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.views))
	for i := range m.views {
		cmds = append(cmds, m.route(i, msg))
	}
	return tea.Batch(cmds...)
}

func (m model) custom() int {
	for i, s := range m.sections {
		if s.Custom {
			return i
		}
	}
	return -1
}

func (m model) View() string {
	var b strings.Builder
	tabs := make([]string, 0, len(m.sections))
	for i, s := range m.sections {
		label := fmt.Sprintf("%d %s", i+1, s.Title)
		switch {
		case util.NoColor(m.noColor) && i == m.active:
			tabs = append(tabs, "["+label+"]")
		case util.NoColor(m.noColor):
			tabs = append(tabs, " "+label+" ")
		case i == m.active:
			tabs = append(tabs, activeStyle.Render(label))
		default:
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, "") + "\n")
	s := m.sections[m.active]
	b.WriteString(titleStyle.Render(s.Title) + "  " + faintStyle.Render(s.Description) + "\n")
	if s.Custom {
		b.WriteString(m.stepBar() + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(m.views[m.active].View())
	return b.String()
}

func (m model) stepBar() string {
	n := m.views[m.active].Count()
	prev, next := "← Previous", "Next →"
	if m.step == 0 {
		prev = faintStyle.Render(prev)
	}
	if m.step == n-1 {
		next = faintStyle.Render(next)
	}
	return fmt.Sprintf("%s   Step %d of %d   %s", prev, m.step+1, n, next)
}
