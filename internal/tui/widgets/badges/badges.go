package badges

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/lipgloss"

    "codemorph/internal/tui/util"
)

// Kind enumerates header badge types. Display order follows declaration.
type Kind int

const (
    Language Kind = iota
    Theme
    Loading
    Failed
)

// Badge is a single header chip.
type Badge struct {
    Kind  Kind
    Label string
}

// View renders badges in a stable order using colored chips when possible
// and ASCII fallbacks when color is disabled.
func View(bs []Badge, noColor bool) string {
    if len(bs) == 0 {
        return ""
    }
    noColor = util.NoColor(noColor)
    parts := make([]string, 0, len(bs))
    for _, b := range bs {
        parts = append(parts, renderChip(b, noColor))
    }
    return strings.Join(parts, " ")
}

func renderChip(b Badge, noColor bool) string {
    label := chipLabel(b)
    if noColor {
        return fmt.Sprintf("[%s]", label)
    }
    return chipStyle(b).Render(label)
}

func chipLabel(b Badge) string {
    switch b.Kind {
    case Loading:
        return "loading"
    case Failed:
        return "plain"
    default:
        return b.Label
    }
}

func chipStyle(b Badge) lipgloss.Style {
    p := util.DefaultPalette()
    base := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
    switch b.Kind {
    case Language:
        return base.Background(p.Primary)
    case Theme:
        return base.Background(p.Muted)
    case Loading:
        return base.Background(p.Warning).Foreground(lipgloss.Color("#111111"))
    case Failed:
        return base.Background(p.Danger)
    default:
        return base
    }
}
