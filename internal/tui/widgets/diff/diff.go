package diff

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/lipgloss"
    dmp "github.com/sergi/go-diff/diffmatchpatch"

    "codemorph/internal/tui/state"
)

var (
    delLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
    addLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
    delChar = delLine.Underline(true)
    addChar = addLine.Underline(true)
    faint   = lipgloss.NewStyle().Faint(true)
)

type DiffView struct {
    NoColor bool
}

func NewDiffView(noColor bool) DiffView { return DiffView{NoColor: noColor} }

// View renders a unified diff of the previous snippet against the current
// one. Changed line pairs get char-level highlights; lines are clipped to the
// available width.
func (v DiffView) View(s state.UIState, before, after string) string {
    if before == after {
        return v.paint(faint, "No changes from previous snippet") + "\n"
    }
    lines := unified(before, after)
    var b strings.Builder
    for _, ln := range lines {
        b.WriteString(v.renderLine(ln, s.Width))
        b.WriteString("\n")
    }
    return b.String()
}

type op int

const (
    same op = iota
    del
    add
)

type span struct {
    text string
    mark bool
}

type line struct {
    op    op
    spans []span
}

// unified pairs lines by a line-level diff, then refines each deleted/added
// pair with a char-level diff.
func unified(before, after string) []line {
    d := dmp.New()
    a, b, table := d.DiffLinesToRunes(withNewline(before), withNewline(after))
    diffs := d.DiffMainRunes(a, b, false)
    diffs = d.DiffCharsToLines(diffs, table)

    var out []line
    for i := 0; i < len(diffs); i++ {
        df := diffs[i]
        switch df.Type {
        case dmp.DiffEqual:
            for _, l := range splitLines(df.Text) {
                out = append(out, line{op: same, spans: []span{{text: l}}})
            }
        case dmp.DiffDelete:
            if i+1 < len(diffs) && diffs[i+1].Type == dmp.DiffInsert {
                out = append(out, pairs(d, splitLines(df.Text), splitLines(diffs[i+1].Text))...)
                i++
                continue
            }
            for _, l := range splitLines(df.Text) {
                out = append(out, line{op: del, spans: []span{{text: l}}})
            }
        case dmp.DiffInsert:
            for _, l := range splitLines(df.Text) {
                out = append(out, line{op: add, spans: []span{{text: l}}})
            }
        }
    }
    return out
}

func pairs(d *dmp.DiffMatchPatch, olds, news []string) []line {
    var dels, adds []line
    n := len(olds)
    if len(news) > n {
        n = len(news)
    }
    for i := 0; i < n; i++ {
        switch {
        case i < len(olds) && i < len(news):
            diffs := d.DiffCleanupSemantic(d.DiffMain(olds[i], news[i], false))
            var ds, as []span
            for _, df := range diffs {
                switch df.Type {
                case dmp.DiffDelete:
                    ds = append(ds, span{text: df.Text, mark: true})
                case dmp.DiffInsert:
                    as = append(as, span{text: df.Text, mark: true})
                case dmp.DiffEqual:
                    ds = append(ds, span{text: df.Text})
                    as = append(as, span{text: df.Text})
                }
            }
            dels = append(dels, line{op: del, spans: ds})
            adds = append(adds, line{op: add, spans: as})
        case i < len(olds):
            dels = append(dels, line{op: del, spans: []span{{text: olds[i]}}})
        default:
            adds = append(adds, line{op: add, spans: []span{{text: news[i]}}})
        }
    }
    return append(dels, adds...)
}

func (v DiffView) renderLine(ln line, width int) string {
    prefix, base, mark := "  ", faint, faint
    switch ln.op {
    case del:
        prefix, base, mark = "- ", delLine, delChar
    case add:
        prefix, base, mark = "+ ", addLine, addChar
    }
    budget := -1
    if width > 2 {
        budget = width - 2
    }
    var b strings.Builder
    b.WriteString(v.paint(base, prefix))
    for _, sp := range ln.spans {
        text := sp.text
        if budget >= 0 {
            text = clip(text, budget)
            budget -= len([]rune(text))
        }
        if text == "" {
            continue
        }
        if sp.mark {
            b.WriteString(v.paint(mark, text))
        } else {
            b.WriteString(v.paint(base, text))
        }
    }
    return b.String()
}

func (v DiffView) paint(st lipgloss.Style, s string) string {
    if v.NoColor {
        return s
    }
    return st.Render(s)
}

func withNewline(s string) string {
    if strings.HasSuffix(s, "\n") {
        return s
    }
    return s + "\n"
}

func splitLines(s string) []string {
    s = strings.TrimSuffix(s, "\n")
    return strings.Split(s, "\n")
}

func clip(s string, width int) string {
    runes := []rune(s)
    if width <= 0 {
        return ""
    }
    if len(runes) > width {
        return string(runes[:width])
    }
    return s
}

// Summary returns a short "+A -D" line count between two snippets.
func Summary(before, after string) string {
    var adds, dels int
    for _, ln := range unified(before, after) {
        switch ln.op {
        case add:
            adds++
        case del:
            dels++
        }
    }
    return fmt.Sprintf("+%d -%d", adds, dels)
}
