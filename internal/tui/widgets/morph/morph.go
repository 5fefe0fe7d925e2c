// Package morph renders animated transitions between two versions of a
// snippet. Text common to both versions stays in place; removed text is
// erased from its end during the first half of the transition and inserted
// text is typed in during the second half, each segment offset by the
// stagger.
package morph

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"codemorph/internal/highlight"
)

// Options controls timing and decoration.
type Options struct {
	Duration    time.Duration
	Stagger     time.Duration
	LineNumbers bool
	Plain       bool // no colors at all
}

type kind int

const (
	kept kind = iota
	removed
	added
)

type segment struct {
	kind     kind
	text     []rune
	oldStyle []highlight.Style
	newStyle []highlight.Style
	order    int // position among segments of the same kind
}

// Transition is a precomputed morph from one snippet to another.
type Transition struct {
	segs []segment
	opts Options
}

// New diffs prev against next. Token streams may be nil, in which case the
// matching side renders unstyled.
func New(prev, next string, prevToks, nextToks []highlight.Token, opts Options) Transition {
	oldStyles := runeStyles(prev, prevToks)
	newStyles := runeStyles(next, nextToks)

	d := dmp.New()
	diffs := d.DiffMain(prev, next, false)
	diffs = d.DiffCleanupSemantic(diffs)

	var (
		segs         []segment
		oi, ni       int
		nDel, nAdded int
	)
	for _, df := range diffs {
		rs := []rune(df.Text)
		n := len(rs)
		switch df.Type {
		case dmp.DiffEqual:
			segs = append(segs, segment{kind: kept, text: rs, oldStyle: oldStyles[oi : oi+n], newStyle: newStyles[ni : ni+n]})
			oi += n
			ni += n
		case dmp.DiffDelete:
			segs = append(segs, segment{kind: removed, text: rs, oldStyle: oldStyles[oi : oi+n], order: nDel})
			oi += n
			nDel++
		case dmp.DiffInsert:
			segs = append(segs, segment{kind: added, text: rs, newStyle: newStyles[ni : ni+n], order: nAdded})
			ni += n
			nAdded++
		}
	}
	return Transition{segs: segs, opts: opts}
}

// Done reports whether elapsed has reached the end of the transition.
func (t Transition) Done(elapsed time.Duration) bool {
	return elapsed >= t.opts.Duration
}

// Frame renders the transition at elapsed time.
func (t Transition) Frame(elapsed time.Duration) string {
	dur := t.opts.Duration
	half := dur / 2
	var out []cell
	for _, s := range t.segs {
		switch s.kind {
		case kept:
			styles := s.newStyle
			if elapsed < half {
				styles = s.oldStyle
			}
			out = appendCells(out, s.text, styles, false)
		case removed:
			if elapsed >= half {
				continue
			}
			start := minDur(half, time.Duration(s.order)*t.opts.Stagger)
			keep := len(s.text)
			if elapsed > start {
				p := EaseInOut(float64(elapsed-start) / float64(half-start))
				keep = int(math.Round(float64(len(s.text)) * (1 - p)))
			}
			out = appendCells(out, s.text[:keep], s.oldStyle[:keep], elapsed > start)
		case added:
			start := minDur(dur, half+time.Duration(s.order)*t.opts.Stagger)
			if elapsed < start {
				continue
			}
			show := len(s.text)
			if span := dur - start; span > 0 && elapsed < dur {
				p := EaseInOut(float64(elapsed-start) / float64(span))
				show = int(math.Round(float64(len(s.text)) * p))
			}
			out = appendCells(out, s.text[:show], s.newStyle[:show], false)
		}
	}
	return render(out, t.opts)
}

// Static renders code with its tokens (or plain when toks is nil).
func Static(code string, toks []highlight.Token, opts Options) string {
	return render(appendCells(nil, []rune(code), runeStyles(code, toks), false), opts)
}

type cell struct {
	r     rune
	style highlight.Style
	fade  bool
}

func appendCells(out []cell, rs []rune, styles []highlight.Style, fade bool) []cell {
	for i, r := range rs {
		out = append(out, cell{r: r, style: styles[i], fade: fade})
	}
	return out
}

// runeStyles spreads token styles over the runes of code. Runes the tokens
// do not cover get the zero style.
func runeStyles(code string, toks []highlight.Token) []highlight.Style {
	n := len([]rune(code))
	out := make([]highlight.Style, 0, n)
	for _, tok := range toks {
		for range tok.Text {
			if len(out) == n {
				return out
			}
			out = append(out, tok.Style)
		}
	}
	for len(out) < n {
		out = append(out, highlight.Style{})
	}
	return out
}

var gutterStyle = lipgloss.NewStyle().Faint(true)

func render(cells []cell, opts Options) string {
	lines := [][]cell{nil}
	for _, c := range cells {
		if c.r == '\n' {
			lines = append(lines, nil)
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], c)
	}
	width := len(fmt.Sprint(len(lines)))
	var b strings.Builder
	for i, ln := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		if opts.LineNumbers {
			num := fmt.Sprintf("%*d  ", width, i+1)
			if opts.Plain {
				b.WriteString(num)
			} else {
				b.WriteString(gutterStyle.Render(num))
			}
		}
		writeRuns(&b, ln, opts.Plain)
	}
	return b.String()
}

// writeRuns renders consecutive cells sharing a style in one pass.
func writeRuns(b *strings.Builder, cells []cell, plain bool) {
	for i := 0; i < len(cells); {
		j := i
		var run strings.Builder
		for j < len(cells) && cells[j].style == cells[i].style && cells[j].fade == cells[i].fade {
			run.WriteRune(cells[j].r)
			j++
		}
		if plain {
			b.WriteString(run.String())
		} else {
			b.WriteString(Style(cells[i].style, cells[i].fade).Render(run.String()))
		}
		i = j
	}
}

// Style converts a token style into a lipgloss style.
func Style(s highlight.Style, fade bool) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(s.Bold).Italic(s.Italic).Underline(s.Underline).Faint(fade)
	if s.Foreground != "" {
		st = st.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		st = st.Background(lipgloss.Color(s.Background))
	}
	return st
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
