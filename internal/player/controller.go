// Package player implements the index controller behind the code view: it
// reconciles controlled and uncontrolled navigation, emits change
// notifications, and owns the autoplay task.
package player

import (
	"time"

	"codemorph/internal/tui/state"
)

// Handlers receive notifications. For one action OnChange always fires
// before OnNext or OnPrev. Any handler may be nil.
type Handlers struct {
	OnChange func(index int)
	OnNext   func()
	OnPrev   func()
}

// Config is one controller configuration.
type Config struct {
	Count      int
	Initial    int
	Controlled *int // non-nil selects controlled mode
	Autoplay   state.Autoplay
}

// Task is the autoplay timer the host should have armed. A Task is replaced,
// never mutated: every reconfiguration, pause or teardown issues a new Gen
// and ticks carrying an older Gen are ignored by Fire.
type Task struct {
	Gen      uint64
	Interval time.Duration
}

// Controller is the single source of truth for the displayed index. It is
// not safe for concurrent use; hosts drive it from their event loop.
type Controller struct {
	nav    state.Navigation
	auto   state.Autoplay
	h      Handlers
	gen    uint64
	closed bool
}

// New builds a controller. Playback starts when autoplay is enabled.
func New(cfg Config, h Handlers) *Controller {
	auto := cfg.Autoplay
	if auto.Interval <= 0 {
		auto.Interval = state.DefaultInterval
	}
	return &Controller{
		nav:  state.NewNavigation(cfg.Count, cfg.Initial, cfg.Controlled, auto.Enabled),
		auto: auto,
		h:    h,
		gen:  1,
	}
}

func (c *Controller) Index() int { return state.Index(c.nav) }
func (c *Controller) Count() int { return c.nav.Count }
func (c *Controller) Playing() bool { return c.nav.Playing }
func (c *Controller) Controlled() bool { return state.Controlled(c.nav) }
func (c *Controller) Autoplay() state.Autoplay { return c.auto }
func (c *Controller) Closed() bool { return c.closed }

// Advance moves (or, when controlled, requests a move) to the next snippet.
// It reports whether anything happened.
func (c *Controller) Advance() bool {
	return c.apply(state.Advance)
}

// Retreat moves (or requests a move) to the previous snippet.
func (c *Controller) Retreat() bool {
	return c.apply(state.Retreat)
}

// Jump moves (or requests a move) to index i, clamped.
func (c *Controller) Jump(i int) bool {
	return c.apply(func(n state.Navigation) (state.Navigation, []state.Event) {
		return state.Jump(n, i)
	})
}

// TogglePlayback pauses or resumes autoplay without touching the index.
func (c *Controller) TogglePlayback() {
	if c.closed {
		return
	}
	c.nav = state.TogglePlayback(c.nav)
	c.gen++
}

// SetExternalIndex records the owner's authoritative index in controlled
// mode. It is ignored in uncontrolled mode.
func (c *Controller) SetExternalIndex(i int) {
	if c.closed {
		return
	}
	c.nav = state.SetExternal(c.nav, i)
}

// SetCount replaces the snippet count. The index is re-clamped and the
// autoplay task restarts.
func (c *Controller) SetCount(n int) {
	if c.closed {
		return
	}
	c.nav = state.SetCount(c.nav, n)
	c.gen++
}

// SetAutoplay reconfigures autoplay. Enabling it from disabled also resumes
// playback; the task restarts with the new interval either way.
func (c *Controller) SetAutoplay(a state.Autoplay) {
	if c.closed {
		return
	}
	if a.Interval <= 0 {
		a.Interval = state.DefaultInterval
	}
	if a.Enabled && !c.auto.Enabled {
		c.nav.Playing = true
	}
	c.auto = a
	c.gen++
}

// Task returns the autoplay timer that should be running, if any.
func (c *Controller) Task() (Task, bool) {
	if c.closed || !state.ShouldPlay(c.nav, c.auto) {
		return Task{}, false
	}
	return Task{Gen: c.gen, Interval: c.auto.Interval}, true
}

// Fire runs one autoplay tick for task generation gen. Stale generations
// and ticks after Close are ignored. It reports whether the tick applied.
func (c *Controller) Fire(gen uint64) bool {
	if c.closed || gen != c.gen || !state.ShouldPlay(c.nav, c.auto) {
		return false
	}
	nav, evs := state.Tick(c.nav, c.auto)
	c.nav = nav
	if !state.ShouldPlay(c.nav, c.auto) {
		c.gen++
	}
	c.emit(evs)
	return true
}

// Close tears the controller down. Afterwards no operation changes state
// and no handler fires.
func (c *Controller) Close() {
	c.closed = true
	c.gen++
}

func (c *Controller) apply(reduce func(state.Navigation) (state.Navigation, []state.Event)) bool {
	if c.closed {
		return false
	}
	nav, evs := reduce(c.nav)
	if len(evs) == 0 {
		return false
	}
	wasPlaying := c.nav.Playing
	c.nav = nav
	if wasPlaying != c.nav.Playing {
		c.gen++
	}
	c.emit(evs)
	return true
}

func (c *Controller) emit(evs []state.Event) {
	for _, ev := range evs {
		switch ev.Kind {
		case state.Changed:
			if c.h.OnChange != nil {
				c.h.OnChange(ev.Index)
			}
		case state.Advanced:
			if c.h.OnNext != nil {
				c.h.OnNext()
			}
		case state.Retreated:
			if c.h.OnPrev != nil {
				c.h.OnPrev()
			}
		}
	}
}
