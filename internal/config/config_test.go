package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadYAMLAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "greet.py", "def greet():\n    pass\n")
	path := writeFile(t, dir, "deck.yaml", `
theme: dracula
language: python
autoplay:
  enabled: true
snippets:
  - "print('hi')"
  - code: "x = 1"
    filename: x.py
  - file: greet.py
`)
	deck, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, deck.Validate())

	require.Equal(t, "dracula", deck.Theme)
	require.Equal(t, "python", deck.Language)
	require.Equal(t, 800*time.Millisecond, deck.TransitionDuration())
	require.Equal(t, 3*time.Millisecond, deck.StaggerDelay())
	require.True(t, deck.LineNumbers)
	require.True(t, deck.Autoplay.Enabled)
	require.True(t, deck.Autoplay.Loop)
	require.Equal(t, 3*time.Second, deck.AutoplayInterval())

	require.Len(t, deck.Items, 3)
	require.Equal(t, "print('hi')", deck.Items[0].Text)
	require.Equal(t, "x.py", deck.Items[1].Filename)
	require.Equal(t, "def greet():\n    pass", deck.Items[2].Text)
	require.Equal(t, "greet.py", deck.Items[2].Filename)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.toml", `
theme = "nord"
duration = 1000
line_numbers = false

[autoplay]
interval = 1500
loop = false

[[snippets]]
code = "let a = 1;"

[[snippets]]
code = "let a = 2;"
filename = "a.ts"
`)
	deck, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "nord", deck.Theme)
	require.Equal(t, 1000*time.Millisecond, deck.TransitionDuration())
	require.False(t, deck.LineNumbers)
	require.False(t, deck.Autoplay.Loop)
	require.Equal(t, 1500*time.Millisecond, deck.AutoplayInterval())
	require.Len(t, deck.Items, 2)
	require.Equal(t, "a.ts", deck.Items[1].Filename)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.json", `{"snippets": ["a", "b"], "theme": "nord"}`)
	t.Setenv("CODEMORPH_THEME", "monokai")
	t.Setenv("CODEMORPH_AUTOPLAY_INTERVAL", "500")
	t.Setenv("CODEMORPH_INITIAL_INDEX", "1")

	deck, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "monokai", deck.Theme)
	require.Equal(t, 500*time.Millisecond, deck.AutoplayInterval())
	require.Equal(t, 1, deck.InitialIndex)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "deck.ini"))
	require.Error(t, err)
	require.False(t, IsDeck("main.go"))
	require.True(t, IsDeck("talk.yml"))
}

func TestLoadReportsBadSnippet(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.yaml", "snippets:\n  - file: missing.ts\n")
	_, err := Load(path)
	require.ErrorContains(t, err, "snippet 1")
}

func TestValidate(t *testing.T) {
	d := DefaultDeck()
	require.ErrorIs(t, d.Validate(), ErrNoSnippets)

	d = FromItems(nil)
	d.Snippets = nil
	require.ErrorIs(t, d.Validate(), ErrNoSnippets)

	path := writeFile(t, t.TempDir(), "deck.yaml", "snippets: [a]\nduration: -1\n")
	d, err := Load(path)
	require.NoError(t, err)
	require.ErrorContains(t, d.Validate(), "duration")
}

func TestSaveRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "starter.yaml")
	d := DefaultDeck()
	d.Theme = "dracula"
	d.Snippets = []any{"one", map[string]any{"code": "two", "filename": "two.ts"}}
	require.NoError(t, d.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dracula", loaded.Theme)
	require.Len(t, loaded.Items, 2)
	require.Equal(t, "two.ts", loaded.Items[1].Filename)
}

func TestWatchReloads(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.yaml", "snippets: [a]\n")
	got := make(chan *Deck, 4)
	stop, err := Watch(path, func(d *Deck, err error) {
		if err == nil {
			got <- d
		}
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("snippets: [a, b]\ntheme: nord\n"), 0644))
	select {
	case d := <-got:
		require.Equal(t, "nord", d.Theme)
		require.Len(t, d.Items, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}
