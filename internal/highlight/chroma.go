package highlight

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// chromaEngine is an Engine over chroma's lexer and style registries.
type chromaEngine struct {
	mu     sync.RWMutex
	styles map[string]*chroma.Style
	lexers map[string]chroma.Lexer
}

// NewChroma is a Factory backed by chroma. Every requested lexer is compiled
// up front so the first Highlight call does not pay for it.
func NewChroma(ctx context.Context, themes, languages []string) (Engine, error) {
	e := &chromaEngine{
		styles: map[string]*chroma.Style{},
		lexers: map[string]chroma.Lexer{},
	}
	for _, t := range themes {
		if err := e.LoadTheme(ctx, t); err != nil {
			return nil, err
		}
	}
	for _, l := range languages {
		if err := e.LoadLanguage(ctx, l); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *chromaEngine) LoadTheme(ctx context.Context, theme string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := normalize(theme)
	e.mu.RLock()
	_, ok := e.styles[name]
	e.mu.RUnlock()
	if ok {
		return nil
	}
	st, ok := styles.Registry[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	e.mu.Lock()
	e.styles[name] = st
	e.mu.Unlock()
	return nil
}

func (e *chromaEngine) LoadLanguage(ctx context.Context, language string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := normalize(language)
	e.mu.RLock()
	_, ok := e.lexers[name]
	e.mu.RUnlock()
	if ok {
		return nil
	}
	lx := lexers.Get(name)
	if lx == nil {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	lx = chroma.Coalesce(lx)
	// Tokenising once forces the lexer's rules to compile.
	if _, err := lx.Tokenise(nil, ""); err != nil {
		return fmt.Errorf("compile %s lexer: %w", language, err)
	}
	e.mu.Lock()
	e.lexers[name] = lx
	e.mu.Unlock()
	return nil
}

func (e *chromaEngine) Highlight(code, language, theme string) ([]Token, error) {
	e.mu.RLock()
	lx, lok := e.lexers[normalize(language)]
	st, sok := e.styles[normalize(theme)]
	e.mu.RUnlock()
	if !lok {
		return nil, fmt.Errorf("%w: %q", ErrLanguageNotLoaded, language)
	}
	if !sok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotLoaded, theme)
	}
	it, err := lx.Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("tokenise: %w", err)
	}
	bg := st.Get(chroma.Background)
	var out []Token
	for _, tok := range it.Tokens() {
		out = append(out, Token{Text: tok.Value, Style: convert(st.Get(tok.Type), bg)})
	}
	return trimTo(out, code), nil
}

func (e *chromaEngine) Themes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedKeys(e.styles)
}

func (e *chromaEngine) Languages() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedKeys(e.lexers)
}

// AvailableThemes lists every theme chroma knows about.
func AvailableThemes() []string {
	return styles.Names()
}

// AvailableLanguages lists every language chroma knows about.
func AvailableLanguages() []string {
	return lexers.Names(false)
}

// Detect guesses a language identifier from a filename, or returns "".
func Detect(filename string) string {
	lx := lexers.Match(filename)
	if lx == nil {
		return ""
	}
	cfg := lx.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}

func convert(entry, bg chroma.StyleEntry) Style {
	s := Style{
		Bold:      entry.Bold == chroma.Yes,
		Italic:    entry.Italic == chroma.Yes,
		Underline: entry.Underline == chroma.Yes,
	}
	if entry.Colour.IsSet() {
		s.Foreground = entry.Colour.String()
	}
	if entry.Background.IsSet() && entry.Background != bg.Background {
		s.Background = entry.Background.String()
	}
	return s
}

// trimTo drops text some lexers append (a trailing newline) so the token
// stream covers exactly the input.
func trimTo(tokens []Token, code string) []Token {
	remaining := len(code)
	for i, tok := range tokens {
		if len(tok.Text) >= remaining {
			tokens[i].Text = tok.Text[:remaining]
			out := tokens[:i+1]
			if tokens[i].Text == "" {
				out = tokens[:i]
			}
			return out
		}
		remaining -= len(tok.Text)
	}
	return tokens
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
