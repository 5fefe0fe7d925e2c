package codeview

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codemorph/internal/highlight"
	"codemorph/internal/snippet"
	"codemorph/internal/tui/state"
)

type stubEngine struct{}

func (stubEngine) LoadTheme(context.Context, string) error    { return nil }
func (stubEngine) LoadLanguage(context.Context, string) error { return nil }
func (stubEngine) Highlight(code, _, _ string) ([]highlight.Token, error) {
	return []highlight.Token{{Text: code, Style: highlight.Style{Bold: true}}}, nil
}
func (stubEngine) Themes() []string    { return nil }
func (stubEngine) Languages() []string { return nil }

func stubFactory(context.Context, []string, []string) (highlight.Engine, error) {
	return stubEngine{}, nil
}

func opts() Options {
	o := DefaultOptions()
	o.NoColor = true
	o.Duration = 100 * time.Millisecond
	o.Autoplay.Interval = time.Hour
	return o
}

func newView(t *testing.T, n int, o Options) Model {
	t.Helper()
	items := make([]snippet.Item, n)
	for i := range items {
		items[i] = snippet.Item{Text: strings.Repeat("x", i+1)}
	}
	return New(items, highlight.NewCache(stubFactory, highlight.WithoutWarmup()), o)
}

// collect runs cmd and the commands it batches or sequences, returning the
// resulting messages in order. Commands that do not finish quickly (long
// timers) are skipped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(200 * time.Millisecond):
		return nil
	}
	v := reflect.ValueOf(msg)
	if v.Kind() == reflect.Slice && v.Type().Elem() == reflect.TypeOf(tea.Cmd(nil)) {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			out = append(out, collect(v.Index(i).Interface().(tea.Cmd))...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// notifications filters msgs down to the exported notification messages.
func notifications(msgs []tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, m := range msgs {
		switch m.(type) {
		case IndexChangedMsg, AdvancedMsg, RetreatedMsg:
			out = append(out, m)
		}
	}
	return out
}

func press(m Model, k string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	v, cmd := m.Update(msg)
	return v.(Model), cmd
}

func TestNextEmitsChangeBeforeAdvanced(t *testing.T) {
	m := newView(t, 3, opts())
	m, cmd := press(m, "right")
	if m.Index() != 1 {
		t.Fatalf("expected index 1, got %d", m.Index())
	}
	got := notifications(collect(cmd))
	want := []tea.Msg{IndexChangedMsg{Source: m.ID(), Index: 1}, AdvancedMsg{Source: m.ID()}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
	if !m.Animating() {
		t.Fatalf("expected a transition to start")
	}
}

func TestPrevAtStartIsSilent(t *testing.T) {
	m := newView(t, 3, opts())
	m, cmd := press(m, "left")
	if m.Index() != 0 || len(notifications(collect(cmd))) != 0 {
		t.Fatalf("expected no-op at first snippet")
	}
	m, _ = press(m, "3")
	if m.Index() != 2 {
		t.Fatalf("expected jump to 2, got %d", m.Index())
	}
	m, cmd = press(m, "l")
	if m.Index() != 2 || len(notifications(collect(cmd))) != 0 {
		t.Fatalf("expected no-op at last snippet")
	}
}

func TestControlledModeWaitsForHost(t *testing.T) {
	o := opts()
	idx := 0
	o.Controlled = &idx
	m := newView(t, 3, o)
	m, cmd := press(m, "right")
	if m.Index() != 0 {
		t.Fatalf("controlled index must not move on its own")
	}
	got := notifications(collect(cmd))
	if len(got) != 2 || got[0] != (IndexChangedMsg{Source: m.ID(), Index: 1}) {
		t.Fatalf("expected change request, got %#v", got)
	}
	m, _ = m.SetIndex(1)
	if m.Index() != 1 || !m.Animating() {
		t.Fatalf("expected host index applied with a transition")
	}
}

func TestFrameTicksFinishTransition(t *testing.T) {
	m := newView(t, 2, opts())
	m, _ = press(m, "right")
	gen := m.frameGen

	v, cmd := m.Update(frameMsg{id: m.id, gen: gen, at: m.start.Add(50 * time.Millisecond)})
	m = v.(Model)
	if !m.Animating() || cmd == nil {
		t.Fatalf("expected animation to continue mid-way")
	}
	v, _ = m.Update(frameMsg{id: m.id, gen: gen - 1, at: m.start.Add(time.Hour)})
	m = v.(Model)
	if !m.Animating() {
		t.Fatalf("stale frame must be ignored")
	}
	v, cmd = m.Update(frameMsg{id: m.id, gen: gen, at: m.start.Add(100 * time.Millisecond)})
	m = v.(Model)
	if m.Animating() || cmd != nil {
		t.Fatalf("expected transition to end")
	}
	if !strings.Contains(m.body(), "xx") {
		t.Fatalf("expected final snippet on screen, got %q", m.body())
	}
}

func TestAutoplayTicks(t *testing.T) {
	o := opts()
	o.Autoplay.Enabled = true
	m := newView(t, 3, o)
	if !m.Playing() || m.armed == 0 {
		t.Fatalf("expected autoplay armed")
	}
	v, _ := m.Update(autoplayTickMsg{id: m.id, gen: m.armed + 7})
	m = v.(Model)
	if m.Index() != 0 {
		t.Fatalf("stale tick must be ignored")
	}
	v, cmd := m.Update(autoplayTickMsg{id: m.id, gen: m.armed})
	m = v.(Model)
	if m.Index() != 1 {
		t.Fatalf("expected tick to advance, got %d", m.Index())
	}
	got := notifications(collect(cmd))
	if len(got) != 1 || got[0] != (IndexChangedMsg{Source: m.ID(), Index: 1}) {
		t.Fatalf("expected only a change notification from autoplay, got %#v", got)
	}

	gen := m.armed
	m, _ = press(m, " ")
	if m.Playing() {
		t.Fatalf("expected paused")
	}
	v, _ = m.Update(autoplayTickMsg{id: m.id, gen: gen})
	m = v.(Model)
	if m.Index() != 1 {
		t.Fatalf("tick after pause must not advance")
	}
}

func TestHighlighterResults(t *testing.T) {
	m := newView(t, 2, opts())
	if m.engine != nil {
		t.Fatalf("expected no engine before acquisition")
	}
	v, _ := m.Update(highlighterMsg{id: m.id, session: m.session + 1, engine: stubEngine{}})
	m = v.(Model)
	if m.engine != nil {
		t.Fatalf("stale acquisition must be discarded")
	}
	v, _ = m.Update(highlighterMsg{id: m.id, session: m.session, err: errors.New("boom")})
	m = v.(Model)
	if m.engine != nil || !strings.Contains(m.ui.Notice, "boom") {
		t.Fatalf("expected plain fallback with notice, got %q", m.ui.Notice)
	}
	msgs := collect(m.Init())
	var hm highlighterMsg
	for _, msg := range msgs {
		if h, ok := msg.(highlighterMsg); ok {
			hm = h
		}
	}
	if hm.engine == nil {
		t.Fatalf("expected Init to acquire an engine, got %#v", msgs)
	}
	v, _ = m.Update(hm)
	m = v.(Model)
	if m.engine == nil || len(m.shownToks) == 0 {
		t.Fatalf("expected tokens after acquisition")
	}
}

func TestFirstPaintUsesReadyEngine(t *testing.T) {
	cache := highlight.NewCache(stubFactory, highlight.WithoutWarmup())
	o := opts()
	if _, err := cache.Acquire(context.Background(), o.Theme, o.Language); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	m := New(snippet.FromStrings("a"), cache, o)
	if m.engine == nil || m.Init() != nil {
		t.Fatalf("expected synchronous engine and nothing to acquire")
	}
}

func TestHeaderVisibility(t *testing.T) {
	o := opts()
	if !headerVisible(o, "App.tsx", 1) {
		t.Fatalf("filename alone shows header")
	}
	if headerVisible(o, "", 1) {
		t.Fatalf("single unnamed snippet has no header")
	}
	if !headerVisible(o, "", 2) {
		t.Fatalf("controls show header for several snippets")
	}
	o.ShowControls = false
	if headerVisible(o, "", 2) {
		t.Fatalf("hidden controls and no filename means no header")
	}
	o.ShowFilename = false
	if headerVisible(o, "App.tsx", 1) {
		t.Fatalf("hidden filename means no header")
	}
}

func TestHeaderShowsCounter(t *testing.T) {
	m := New([]snippet.Item{{Text: "a", Filename: "a.ts"}, {Text: "b"}}, nil, opts())
	h := m.header()
	if !strings.Contains(h, "a.ts") || !strings.Contains(h, "1/2") {
		t.Fatalf("unexpected header %q", h)
	}
}

func TestDiffToggle(t *testing.T) {
	m := newView(t, 2, opts())
	m, _ = press(m, "right")
	m, _ = press(m, "d")
	if m.ui.View != state.Diff {
		t.Fatalf("expected diff view")
	}
	if !strings.Contains(m.body(), "- x") || !strings.Contains(m.body(), "+ xx") {
		t.Fatalf("unexpected diff body %q", m.body())
	}
	if m.ui.Notice != "diff view +1 -1" {
		t.Fatalf("unexpected notice %q", m.ui.Notice)
	}
}

func TestSetItemsReclamps(t *testing.T) {
	m := newView(t, 3, opts())
	m, _ = press(m, "3")
	m, _ = m.SetItems(snippet.FromStrings("only"))
	if m.Index() != 0 || m.Current().Text != "only" || !m.Animating() {
		t.Fatalf("expected re-clamped index and a transition to the new text")
	}
}

func TestMessagesForOtherComponentsIgnored(t *testing.T) {
	a := newView(t, 2, opts())
	b := newView(t, 2, opts())
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct ids")
	}
	v, _ := a.Update(highlighterMsg{id: b.ID(), session: a.session, engine: stubEngine{}})
	a = v.(Model)
	if a.engine != nil {
		t.Fatalf("result addressed to another component must be ignored")
	}
}

func TestEmptyList(t *testing.T) {
	m := newView(t, 0, opts())
	m, cmd := press(m, "right")
	if m.Index() != 0 || len(notifications(collect(cmd))) != 0 {
		t.Fatalf("expected no navigation in an empty list")
	}
	if m.header() != "" {
		t.Fatalf("expected no header")
	}
	_ = m.View()
}

func TestCloseStopsEverything(t *testing.T) {
	o := opts()
	o.Autoplay.Enabled = true
	m := newView(t, 3, o)
	gen := m.armed
	m = m.Close()
	v, cmd := m.Update(autoplayTickMsg{id: m.id, gen: gen})
	m = v.(Model)
	if m.Index() != 0 || cmd != nil {
		t.Fatalf("expected no tick after close")
	}
	m, cmd = press(m, "right")
	if m.Index() != 0 || cmd != nil {
		t.Fatalf("expected keys ignored after close")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after close")
	}
}
