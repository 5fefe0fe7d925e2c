package helpoverlay

import (
    "strings"

    "github.com/charmbracelet/bubbles/help"
    "github.com/charmbracelet/lipgloss"

    "codemorph/internal/tui/state"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

type HelpOverlay struct {
    model help.Model
}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{model: help.New()} }

// View returns the short key help, or the grouped full help when the
// overlay is open.
func (h HelpOverlay) View(s state.UIState, keys help.KeyMap) string {
    m := h.model
    m.Width = s.Width
    if !s.ShowHelp {
        return m.ShortHelpView(keys.ShortHelp())
    }
    var b strings.Builder
    b.WriteString(titleStyle.Render("Keys") + "\n")
    b.WriteString(m.FullHelpView(keys.FullHelp()))
    return b.String()
}
