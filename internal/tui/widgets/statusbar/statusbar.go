package statusbar

import (
    "fmt"
    "strings"

    "codemorph/internal/tui/state"
)

// Status is the player information shown under the code.
type Status struct {
    Index    int
    Count    int
    Playing  bool
    Autoplay bool
    Loading  bool // highlighter not ready yet
    Theme    string
    Language string
}

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// View composes a concise status line reflecting player and UI state.
func (StatusBar) View(s state.UIState, st Status) string {
    pos := "0/0"
    if st.Count > 0 {
        pos = fmt.Sprintf("%d/%d", st.Index+1, st.Count)
    }
    parts := []string{pos}
    if st.Autoplay {
        if st.Playing {
            parts = append(parts, "[PLAYING]")
        } else {
            parts = append(parts, "[PAUSED]")
        }
    }
    view := "morph"
    if s.View == state.Diff {
        view = "diff"
    }
    parts = append(parts, view, st.Language+"@"+st.Theme)
    if st.Loading {
        parts = append(parts, "plain (highlighter loading)")
    }
    if s.Notice != "" {
        parts = append(parts, s.Notice)
    }
    return strings.Join(parts, "  ")
}
