package codeview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codemorph/internal/tui/state"
	"codemorph/internal/tui/util"
	"codemorph/internal/tui/widgets/badges"
	"codemorph/internal/tui/widgets/morph"
	"codemorph/internal/tui/widgets/statusbar"
)

var (
	filenameStyle = lipgloss.NewStyle().Bold(true)
	buttonStyle   = lipgloss.NewStyle().Bold(true)
	disabledStyle = lipgloss.NewStyle().Faint(true)
)

// headerVisible reports whether the header bar is shown.
func headerVisible(o Options, filename string, count int) bool {
	return (o.ShowFilename && strings.TrimSpace(filename) != "") || (o.ShowControls && count > 1)
}

// View renders header, code area, status line and help.
func (m Model) View() string {
	if m.closed {
		return ""
	}
	var b strings.Builder
	if h := m.header(); h != "" {
		b.WriteString(h + "\n")
	}
	b.WriteString(m.vp.View() + "\n")
	b.WriteString(m.status.View(m.ui, m.statusInfo()) + "\n")
	b.WriteString(m.help.View(m.ui, m.keys))
	return b.String()
}

func (m Model) header() string {
	it := m.Current()
	if !headerVisible(m.opts, it.Filename, len(m.items)) {
		return ""
	}
	noColor := util.NoColor(m.opts.NoColor)
	var parts []string
	if m.opts.ShowFilename && it.HasFilename() {
		parts = append(parts, paint(noColor, filenameStyle, it.Filename))
	}
	if m.opts.ShowControls && len(m.items) > 1 {
		idx := m.Index()
		prev := paint(noColor, buttonStyle, "◀")
		if idx == 0 {
			prev = paint(noColor, disabledStyle, "◀")
		}
		next := paint(noColor, buttonStyle, "▶")
		if idx == len(m.items)-1 {
			next = paint(noColor, disabledStyle, "▶")
		}
		parts = append(parts, fmt.Sprintf("%s %d/%d %s", prev, idx+1, len(m.items), next))
		if m.opts.Autoplay.Enabled {
			glyph := "▶ play"
			if m.Playing() {
				glyph = "⏸ pause"
			}
			parts = append(parts, glyph)
		}
	}
	bs := []badges.Badge{
		{Kind: badges.Language, Label: m.opts.Language},
		{Kind: badges.Theme, Label: m.opts.Theme},
	}
	if m.engine == nil {
		kind := badges.Loading
		if m.engineErr != nil {
			kind = badges.Failed
		}
		bs = append(bs, badges.Badge{Kind: kind})
	}
	parts = append(parts, badges.View(bs, noColor))
	line := strings.Join(parts, "  ")
	width := m.ui.Width
	if width <= 0 {
		width = lipgloss.Width(line)
	}
	rule := paint(noColor, disabledStyle, strings.Repeat("─", width))
	return line + "\n" + rule
}

func (m Model) statusInfo() statusbar.Status {
	return statusbar.Status{
		Index:    m.Index(),
		Count:    len(m.items),
		Playing:  m.Playing(),
		Autoplay: m.opts.Autoplay.Enabled,
		Loading:  m.engine == nil && m.engineErr == nil,
		Theme:    m.opts.Theme,
		Language: m.opts.Language,
	}
}

// body renders the code area content for the current state.
func (m Model) body() string {
	if m.ui.View == state.Diff {
		return m.diff.View(m.ui, m.prev, m.shown)
	}
	if m.trans != nil {
		return m.trans.Frame(m.elapsed)
	}
	return morph.Static(m.shown, m.shownToks, morph.Options{
		LineNumbers: m.opts.LineNumbers,
		Plain:       util.NoColor(m.opts.NoColor),
	})
}

func (m *Model) refresh() {
	m.vp.SetContent(m.body())
}

// layout sizes the viewport to what the chrome leaves over.
func (m *Model) layout() {
	if m.ui.Width > 0 {
		m.vp.Width = m.ui.Width
	}
	if m.ui.Height > 0 {
		chrome := lipgloss.Height(m.help.View(m.ui, m.keys)) + 1
		if h := m.header(); h != "" {
			chrome += lipgloss.Height(h)
		}
		m.vp.Height = max(1, m.ui.Height-chrome)
	}
	m.refresh()
}

func paint(noColor bool, st lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return st.Render(s)
}
