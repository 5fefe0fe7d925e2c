package state

import "time"

// Mode says who owns the current index. It is either Internal (the player
// owns and mutates it) or External (the embedding view owns it and the
// player only requests changes).
type Mode interface{ isMode() }

// Internal is uncontrolled mode.
type Internal struct{ Index int }

// External is controlled mode; Index mirrors the owner's value.
type External struct{ Index int }

func (Internal) isMode() {}
func (External) isMode() {}

// Navigation is the index state machine.
type Navigation struct {
    Mode    Mode
    Count   int
    Playing bool
}

// Autoplay configures timer-driven advancement.
type Autoplay struct {
    Enabled  bool
    Interval time.Duration
    Loop     bool
}

// DefaultInterval is the autoplay period when none is configured.
const DefaultInterval = 3000 * time.Millisecond

// EventKind enumerates notifications produced by reducers.
type EventKind int

const (
    // Changed always precedes Advanced/Retreated for the same action.
    Changed EventKind = iota
    Advanced
    Retreated
)

// Event is one notification. Index is meaningful for Changed only.
type Event struct {
    Kind  EventKind
    Index int
}

// ViewMode controls how the current snippet is rendered.
type ViewMode int

const (
    Morph ViewMode = iota
    Diff
)

// UIState holds component chrome state shared by the status bar, help
// overlay, and content area.
type UIState struct {
    View     ViewMode
    ShowHelp bool

    Width  int
    Height int

    // Notices and ephemeral messages
    Notice string
}
