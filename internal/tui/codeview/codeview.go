// Package codeview is the animated code component: it shows one snippet of a
// list at a time, morphs between snippets, highlights them through a shared
// highlighter cache and drives navigation and autoplay through a
// player.Controller.
package codeview

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"codemorph/internal/highlight"
	"codemorph/internal/player"
	"codemorph/internal/snippet"
	"codemorph/internal/tui/state"
	"codemorph/internal/tui/util"
	"codemorph/internal/tui/widgets/diff"
	"codemorph/internal/tui/widgets/helpoverlay"
	"codemorph/internal/tui/widgets/morph"
	"codemorph/internal/tui/widgets/statusbar"
)

const frameInterval = time.Second / 60

var lastID atomic.Uint64

// Options configures a code view.
type Options struct {
	Language     string
	Theme        string
	Duration     time.Duration
	Stagger      time.Duration
	LineNumbers  bool
	ShowControls bool
	ShowFilename bool
	Autoplay     state.Autoplay
	InitialIndex int
	// Controlled selects controlled mode: the host owns the index and
	// applies requests through SetIndex.
	Controlled *int
	NoColor    bool
	Logger     *log.Logger
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		Language:     highlight.DefaultLanguage,
		Theme:        highlight.DefaultTheme,
		Duration:     800 * time.Millisecond,
		Stagger:      3 * time.Millisecond,
		LineNumbers:  true,
		ShowControls: true,
		ShowFilename: true,
		Autoplay:     state.Autoplay{Interval: state.DefaultInterval, Loop: true},
	}
}

// IndexChangedMsg reports a (requested) index change. It always precedes the
// AdvancedMsg or RetreatedMsg of the same action. Source is the ID of the
// emitting component.
type IndexChangedMsg struct {
	Source uint64
	Index  int
}

// AdvancedMsg reports a user-initiated move forward.
type AdvancedMsg struct{ Source uint64 }

// RetreatedMsg reports a user-initiated move back.
type RetreatedMsg struct{ Source uint64 }

type autoplayTickMsg struct{ id, gen uint64 }

type frameMsg struct {
	id, gen uint64
	at      time.Time
}

type highlighterMsg struct {
	id      uint64
	session uint64
	key     highlight.Key
	engine  highlight.Engine
	err     error
}

type copiedMsg struct {
	id  uint64
	err error
}

// outbox collects controller notifications until Update turns them into
// messages. It is shared by every copy of a Model.
type outbox struct{ msgs []tea.Msg }

func (o *outbox) push(msg tea.Msg) { o.msgs = append(o.msgs, msg) }

func (o *outbox) drain() []tea.Msg {
	msgs := o.msgs
	o.msgs = nil
	return msgs
}

// Model is the Bubble Tea model of the component.
type Model struct {
	id    uint64
	items []snippet.Item
	opts  Options
	keys  KeyMap
	log   *log.Logger

	cache *highlight.Cache
	ctrl  *player.Controller
	out   *outbox
	armed uint64 // autoplay generation with a pending tick

	engine    highlight.Engine
	engineErr error
	session   uint64
	ctx       context.Context
	cancel    context.CancelFunc

	shown     string // text currently on screen
	prev      string // text before the last change, for the diff view
	shownToks []highlight.Token
	trans     *morph.Transition
	start     time.Time
	elapsed   time.Duration
	frameGen  uint64

	ui     state.UIState
	vp     viewport.Model
	status statusbar.StatusBar
	help   helpoverlay.HelpOverlay
	diff   diff.DiffView
	closed bool
}

// New builds a component over items. The first paint uses an engine already
// in the cache when there is one; otherwise it renders plain text until Init's
// acquisition completes.
func New(items []snippet.Item, cache *highlight.Cache, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		id:     lastID.Add(1),
		items:  items,
		opts:   opts,
		keys:   DefaultKeyMap(),
		log:    opts.Logger,
		cache:  cache,
		out:    &outbox{},
		ctx:    ctx,
		cancel: cancel,
		vp:     viewport.New(80, 20),
		status: statusbar.NewStatusBar(),
		help:   helpoverlay.NewHelpOverlay(),
		diff:   diff.NewDiffView(util.NoColor(opts.NoColor)),
	}
	out, id := m.out, m.id
	m.ctrl = player.New(player.Config{
		Count:      len(items),
		Initial:    opts.InitialIndex,
		Controlled: opts.Controlled,
		Autoplay:   opts.Autoplay,
	}, player.Handlers{
		OnChange: func(i int) { out.push(IndexChangedMsg{Source: id, Index: i}) },
		OnNext:   func() { out.push(AdvancedMsg{Source: id}) },
		OnPrev:   func() { out.push(RetreatedMsg{Source: id}) },
	})
	m.keys.Play.SetEnabled(opts.Autoplay.Enabled)
	if task, ok := m.ctrl.Task(); ok {
		m.armed = task.Gen
	}
	if cache != nil {
		if eng, ok := cache.Lookup(opts.Theme, opts.Language); ok {
			m.engine = eng
		}
	}
	m.shown = m.Current().Text
	m.prev = m.shown
	m.shownToks = m.tokens(m.shown)
	m.refresh()
	return m
}

// Init starts highlighter acquisition and the autoplay timer.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.acquire()}
	if task, ok := m.ctrl.Task(); ok {
		cmds = append(cmds, autoplayTick(m.id, task))
	}
	return tea.Batch(cmds...)
}

// Update handles keys, ticks and acquisition results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui = state.Resize(m.ui, msg.Width, msg.Height)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case autoplayTickMsg:
		if msg.id != m.id || msg.gen != m.armed {
			return m, nil
		}
		m.armed = 0
		m.ctrl.Fire(msg.gen)
		return m, m.after()

	case frameMsg:
		if msg.id != m.id || msg.gen != m.frameGen || m.trans == nil {
			return m, nil
		}
		m.elapsed = msg.at.Sub(m.start)
		if m.trans.Done(m.elapsed) {
			m.trans = nil
			m.refresh()
			return m, nil
		}
		m.refresh()
		return m, frameTick(m.id, m.frameGen)

	case highlighterMsg:
		if msg.id != m.id || msg.session != m.session {
			return m, nil
		}
		if msg.err != nil {
			m.log.Warn("highlighter unavailable", "key", msg.key, "err", msg.err)
			m.engineErr = msg.err
			m.ui.Notice = "plain text: " + msg.err.Error()
			return m, nil
		}
		m.log.Debug("highlighter ready", "key", msg.key)
		m.engine, m.engineErr = msg.engine, nil
		m.shownToks = m.tokens(m.shown)
		m.refresh()
		return m, nil

	case copiedMsg:
		if msg.id != m.id {
			return m, nil
		}
		if msg.err != nil {
			m.ui.Notice = "copy failed: " + msg.err.Error()
		} else {
			m.ui.Notice = "copied to clipboard"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.Retreat()
		return m, m.after()
	case key.Matches(msg, m.keys.Next):
		m.ctrl.Advance()
		return m, m.after()
	case key.Matches(msg, m.keys.Play):
		m.ctrl.TogglePlayback()
		return m, m.after()
	case key.Matches(msg, m.keys.Jump):
		m.ctrl.Jump(int(msg.String()[0] - '1'))
		return m, m.after()
	case key.Matches(msg, m.keys.Diff):
		m.ui = state.ToggleView(m.ui)
		if m.ui.View == state.Diff {
			m.ui.Notice += " " + diff.Summary(m.prev, m.shown)
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, copyCmd(m.id, m.Current().Text)
	case key.Matches(msg, m.keys.Help):
		m.ui = state.ToggleHelp(m.ui)
		m.layout()
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// ID identifies the component in the messages it emits.
func (m Model) ID() uint64 { return m.id }

// Index returns the displayed index.
func (m Model) Index() int { return m.ctrl.Index() }

// Count returns the number of snippets.
func (m Model) Count() int { return len(m.items) }

// Playing reports whether autoplay is running.
func (m Model) Playing() bool { return m.ctrl.Playing() }

// Current returns the displayed snippet, or the zero Item for an empty list.
func (m Model) Current() snippet.Item { return snippet.At(m.items, m.ctrl.Index()) }

// Animating reports whether a transition is in progress.
func (m Model) Animating() bool { return m.trans != nil }

// KeyMap returns the bindings, for hosts composing their own help.
func (m Model) KeyMap() KeyMap { return m.keys }

// SetIndex applies the host's index in controlled mode.
func (m Model) SetIndex(i int) (Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	m.ctrl.SetExternalIndex(i)
	return m, m.after()
}

// SetItems replaces the snippet list. The index is re-clamped and the new
// content morphs in.
func (m Model) SetItems(items []snippet.Item) (Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	m.items = items
	m.ctrl.SetCount(len(items))
	return m, m.after()
}

// SetAutoplay reconfigures autoplay.
func (m Model) SetAutoplay(a state.Autoplay) (Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	m.opts.Autoplay = a
	m.keys.Play.SetEnabled(a.Enabled)
	m.ctrl.SetAutoplay(a)
	return m, m.after()
}

// SetStyle switches theme and language. Results of acquisitions started for
// the previous pair are discarded.
func (m Model) SetStyle(theme, language string) (Model, tea.Cmd) {
	if m.closed || (theme == m.opts.Theme && language == m.opts.Language) {
		return m, nil
	}
	m.opts.Theme, m.opts.Language = theme, language
	m.session++
	m.engine, m.engineErr = nil, nil
	if m.cache != nil {
		if eng, ok := m.cache.Lookup(theme, language); ok {
			m.engine = eng
		}
	}
	m.shownToks = m.tokens(m.shown)
	m.refresh()
	if m.engine != nil {
		return m, nil
	}
	return m, m.acquire()
}

// Close tears the component down: timers stop, pending acquisitions are
// discarded and no further messages are emitted.
func (m Model) Close() Model {
	if m.closed {
		return m
	}
	m.closed = true
	m.ctrl.Close()
	m.session++
	m.frameGen++
	m.trans = nil
	m.cancel()
	return m
}

// after turns controller notifications into ordered messages, starts a
// transition when the displayed text changed and re-arms autoplay.
func (m *Model) after() tea.Cmd {
	var cmds []tea.Cmd
	if msgs := m.out.drain(); len(msgs) > 0 {
		seq := make([]tea.Cmd, 0, len(msgs))
		for _, msg := range msgs {
			seq = append(seq, emit(msg))
		}
		cmds = append(cmds, tea.Sequence(seq...))
	}
	if cmd := m.sync(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if task, ok := m.ctrl.Task(); ok && task.Gen != m.armed {
		m.armed = task.Gen
		cmds = append(cmds, autoplayTick(m.id, task))
	}
	return tea.Batch(cmds...)
}

// sync starts a transition when the current snippet differs from what is on
// screen. A running transition is replaced.
func (m *Model) sync() tea.Cmd {
	next := m.Current().Text
	if next == m.shown {
		return nil
	}
	toks := m.tokens(next)
	mo := morph.Options{
		Duration:    m.opts.Duration,
		Stagger:     m.opts.Stagger,
		LineNumbers: m.opts.LineNumbers,
		Plain:       util.NoColor(m.opts.NoColor),
	}
	t := morph.New(m.shown, next, m.shownToks, toks, mo)
	m.prev, m.shown, m.shownToks = m.shown, next, toks
	m.frameGen++
	m.vp.GotoTop()
	if m.opts.Duration <= 0 {
		m.trans = nil
		m.refresh()
		return nil
	}
	m.trans = &t
	m.start = time.Now()
	m.elapsed = 0
	m.refresh()
	return frameTick(m.id, m.frameGen)
}

func (m Model) tokens(code string) []highlight.Token {
	if m.engine == nil {
		return nil
	}
	toks, err := m.engine.Highlight(code, m.opts.Language, m.opts.Theme)
	if err != nil {
		m.log.Debug("highlight failed", "language", m.opts.Language, "theme", m.opts.Theme, "err", err)
		return nil
	}
	return toks
}

func (m Model) acquire() tea.Cmd {
	if m.engine != nil || m.cache == nil {
		return nil
	}
	ctx, id, session := m.ctx, m.id, m.session
	k := highlight.Key{Theme: m.opts.Theme, Language: m.opts.Language}
	cache := m.cache
	return func() tea.Msg {
		eng, err := cache.Acquire(ctx, k.Theme, k.Language)
		return highlighterMsg{id: id, session: session, key: k, engine: eng, err: err}
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func autoplayTick(id uint64, t player.Task) tea.Cmd {
	return tea.Tick(t.Interval, func(time.Time) tea.Msg { return autoplayTickMsg{id: id, gen: t.Gen} })
}

func frameTick(id, gen uint64) tea.Cmd {
	return tea.Tick(frameInterval, func(at time.Time) tea.Msg { return frameMsg{id: id, gen: gen, at: at} })
}

func copyCmd(id uint64, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{id: id, err: clipboard.WriteAll(text)}
	}
}
