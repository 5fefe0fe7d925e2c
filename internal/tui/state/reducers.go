package state

// Clamp maps any raw index into [0, count-1]; with count 0 it returns 0.
func Clamp(raw, count int) int {
    if count <= 0 || raw < 0 {
        return 0
    }
    if raw > count-1 {
        return count - 1
    }
    return raw
}

// NewNavigation builds the initial state. A non-nil controlled index selects
// External mode; otherwise initial seeds Internal mode.
func NewNavigation(count, initial int, controlled *int, playing bool) Navigation {
    n := Navigation{Count: count, Playing: playing}
    if controlled != nil {
        n.Mode = External{Index: *controlled}
    } else {
        n.Mode = Internal{Index: Clamp(initial, count)}
    }
    return n
}

// Index returns the display index for either mode.
func Index(n Navigation) int {
    switch m := n.Mode.(type) {
    case External:
        return Clamp(m.Index, n.Count)
    case Internal:
        return Clamp(m.Index, n.Count)
    default:
        return 0
    }
}

// Controlled reports whether the index is owned externally.
func Controlled(n Navigation) bool {
    _, ok := n.Mode.(External)
    return ok
}

// Advance moves one step forward and stops playback. At the last index it
// is a no-op and yields no events.
func Advance(n Navigation) (Navigation, []Event) {
    next := Index(n) + 1
    if n.Count == 0 || next >= n.Count {
        return n, nil
    }
    n = moveTo(n, next)
    n.Playing = false
    return n, []Event{{Kind: Changed, Index: next}, {Kind: Advanced}}
}

// Retreat moves one step back and stops playback. At index 0 it is a no-op.
func Retreat(n Navigation) (Navigation, []Event) {
    prev := Index(n) - 1
    if n.Count == 0 || prev < 0 {
        return n, nil
    }
    n = moveTo(n, prev)
    n.Playing = false
    return n, []Event{{Kind: Changed, Index: prev}, {Kind: Retreated}}
}

// Jump moves to a clamped index and stops playback. Jumping to the current
// index is a no-op.
func Jump(n Navigation, to int) (Navigation, []Event) {
    if n.Count == 0 {
        return n, nil
    }
    to = Clamp(to, n.Count)
    if to == Index(n) {
        return n, nil
    }
    n = moveTo(n, to)
    n.Playing = false
    return n, []Event{{Kind: Changed, Index: to}}
}

// TogglePlayback flips Playing. The index is untouched.
func TogglePlayback(n Navigation) Navigation {
    n.Playing = !n.Playing
    return n
}

// ShouldPlay reports whether the autoplay timer must be running.
func ShouldPlay(n Navigation, a Autoplay) bool {
    return a.Enabled && n.Playing && n.Count >= 2
}

// Tick applies one autoplay step. Past the end it wraps to 0 when looping;
// without looping playback stops on the last index.
func Tick(n Navigation, a Autoplay) (Navigation, []Event) {
    if !ShouldPlay(n, a) {
        return n, nil
    }
    next := Index(n) + 1
    if next < n.Count {
        n = moveTo(n, next)
        // Without looping there is nothing left to play once the last
        // snippet is reached.
        if !a.Loop && next == n.Count-1 {
            n.Playing = false
        }
        return n, []Event{{Kind: Changed, Index: next}}
    }
    if a.Loop {
        return moveTo(n, 0), []Event{{Kind: Changed, Index: 0}}
    }
    n.Playing = false
    return n, nil
}

// SetExternal records the owner's new index. It is ignored in Internal mode.
func SetExternal(n Navigation, index int) Navigation {
    if _, ok := n.Mode.(External); ok {
        n.Mode = External{Index: index}
    }
    return n
}

// SetCount replaces the snippet count and re-clamps an owned index.
func SetCount(n Navigation, count int) Navigation {
    n.Count = count
    if m, ok := n.Mode.(Internal); ok {
        n.Mode = Internal{Index: Clamp(m.Index, count)}
    }
    return n
}

// moveTo mutates the index only when the player owns it. In External mode
// the move is a request carried by the returned events.
func moveTo(n Navigation, to int) Navigation {
    if _, ok := n.Mode.(Internal); ok {
        n.Mode = Internal{Index: to}
    }
    return n
}

// ToggleView switches between the morph and diff renderings.
func ToggleView(s UIState) UIState {
    if s.View == Morph {
        s.View = Diff
        s.Notice = "diff view"
    } else {
        s.View = Morph
        s.Notice = ""
    }
    return s
}

// ToggleHelp shows or hides the full key help.
func ToggleHelp(s UIState) UIState {
    s.ShowHelp = !s.ShowHelp
    return s
}

// Resize records the available area.
func Resize(s UIState, width, height int) UIState {
    s.Width = width
    s.Height = height
    return s
}
