// Package config loads decks: a snippet list plus the options of the code
// view, read from YAML, JSON or TOML and overlaid with CODEMORPH_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"codemorph/internal/highlight"
	"codemorph/internal/snippet"
)

// ErrNoSnippets is returned when a deck has nothing to show.
var ErrNoSnippets = errors.New("deck has no snippets")

const envPrefix = "CODEMORPH_"

// Autoplay mirrors the autoplay block of a deck. Interval is milliseconds.
type Autoplay struct {
	Enabled  bool `koanf:"enabled" yaml:"enabled"`
	Interval int  `koanf:"interval" yaml:"interval"`
	Loop     bool `koanf:"loop" yaml:"loop"`
}

// Deck is one presentation. Durations are milliseconds.
type Deck struct {
	Snippets     []any    `koanf:"snippets" yaml:"snippets"`
	Language     string   `koanf:"language" yaml:"language"`
	Theme        string   `koanf:"theme" yaml:"theme"`
	Duration     int      `koanf:"duration" yaml:"duration"`
	Stagger      int      `koanf:"stagger" yaml:"stagger"`
	LineNumbers  bool     `koanf:"line_numbers" yaml:"line_numbers"`
	ShowControls bool     `koanf:"show_controls" yaml:"show_controls"`
	ShowFilename bool     `koanf:"show_filename" yaml:"show_filename"`
	Autoplay     Autoplay `koanf:"autoplay" yaml:"autoplay"`
	InitialIndex int      `koanf:"initial_index" yaml:"initial_index"`

	// Items is Snippets after normalization.
	Items []snippet.Item `koanf:"-" yaml:"-"`
}

// DefaultDeck returns a deck with every option at its default.
func DefaultDeck() *Deck {
	return &Deck{
		Language:     highlight.DefaultLanguage,
		Theme:        highlight.DefaultTheme,
		Duration:     800,
		Stagger:      3,
		LineNumbers:  true,
		ShowControls: true,
		ShowFilename: true,
		Autoplay:     Autoplay{Interval: 3000, Loop: true},
	}
}

// Load reads the deck at path, then overlays environment variable
// overrides (CODEMORPH_THEME, CODEMORPH_AUTOPLAY_INTERVAL, ...). File
// references in the snippet list resolve against the deck's directory.
func Load(path string) (*Deck, error) {
	k := koanf.New(".")
	deck := DefaultDeck()

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("reading deck %s: %w", path, err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}
	if err := k.Unmarshal("", deck); err != nil {
		return nil, fmt.Errorf("unmarshalling deck: %w", err)
	}

	items, err := snippet.NormalizeAll(deck.Snippets, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	deck.Items = items
	return deck, nil
}

// FromItems builds a default deck around already normalized snippets.
func FromItems(items []snippet.Item) *Deck {
	d := DefaultDeck()
	d.Items = items
	for _, it := range items {
		d.Snippets = append(d.Snippets, map[string]any{"code": it.Text, "filename": it.Filename})
	}
	return d
}

// Validate checks that the deck contains usable values.
func (d *Deck) Validate() error {
	if len(d.Items) == 0 {
		return ErrNoSnippets
	}
	if d.Duration < 0 {
		return fmt.Errorf("duration must be non-negative")
	}
	if d.Stagger < 0 {
		return fmt.Errorf("stagger must be non-negative")
	}
	if d.Autoplay.Interval <= 0 {
		return fmt.Errorf("autoplay.interval must be positive")
	}
	if strings.TrimSpace(d.Theme) == "" {
		return fmt.Errorf("theme is required")
	}
	if strings.TrimSpace(d.Language) == "" {
		return fmt.Errorf("language is required")
	}
	return nil
}

// TransitionDuration returns the morph duration.
func (d *Deck) TransitionDuration() time.Duration {
	return time.Duration(d.Duration) * time.Millisecond
}

// StaggerDelay returns the per-segment stagger.
func (d *Deck) StaggerDelay() time.Duration {
	return time.Duration(d.Stagger) * time.Millisecond
}

// AutoplayInterval returns the delay between autoplay advances.
func (d *Deck) AutoplayInterval() time.Duration {
	return time.Duration(d.Autoplay.Interval) * time.Millisecond
}

// Save writes the deck to path as YAML.
func (d *Deck) Save(path string) error {
	data, err := yamlv3.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshalling deck: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing deck to %s: %w", path, err)
	}
	return nil
}

// IsDeck reports whether path names a deck file rather than a snippet.
func IsDeck(path string) bool {
	_, err := parserFor(path)
	return err == nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return yaml.Parser(), nil
	case ".toml":
		return TOML(), nil
	default:
		return nil, fmt.Errorf("unsupported deck format %q", filepath.Ext(path))
	}
}

// envKey maps CODEMORPH_AUTOPLAY_INTERVAL to autoplay.interval.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "autoplay_"); ok {
		return "autoplay." + rest
	}
	return key
}
