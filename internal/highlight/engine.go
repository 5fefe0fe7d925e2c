// Package highlight provides syntax-highlighting engines and the shared cache
// that hands them out per (theme, language).
package highlight

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnknownTheme      = errors.New("unknown theme")
	ErrUnknownLanguage   = errors.New("unknown language")
	ErrThemeNotLoaded    = errors.New("theme not loaded")
	ErrLanguageNotLoaded = errors.New("language not loaded")
)

// Style is the presentation of one token. Colors are "#rrggbb" or empty.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Italic     bool
	Underline  bool
}

// Token is a highlighted run of source text. Text may contain newlines.
type Token struct {
	Text  string
	Style Style
}

// Engine tokenizes and colors source text for the themes and languages it
// has loaded. Engines are capability-additive: loading more themes or
// languages never invalidates the ones already present. Implementations must
// be safe for concurrent use.
type Engine interface {
	LoadTheme(ctx context.Context, theme string) error
	LoadLanguage(ctx context.Context, language string) error
	Highlight(code, language, theme string) ([]Token, error)
	Themes() []string
	Languages() []string
}

// Factory constructs a new engine preloaded with the given themes and
// languages. Any unknown identifier fails the construction.
type Factory func(ctx context.Context, themes, languages []string) (Engine, error)

// Lines splits a token stream at newlines. Tokens spanning a newline are cut
// in two; the newline itself is dropped.
func Lines(tokens []Token) [][]Token {
	out := [][]Token{nil}
	for _, tok := range tokens {
		parts := strings.Split(tok.Text, "\n")
		for i, p := range parts {
			if i > 0 {
				out = append(out, nil)
			}
			if p != "" {
				out[len(out)-1] = append(out[len(out)-1], Token{Text: p, Style: tok.Style})
			}
		}
	}
	return out
}
