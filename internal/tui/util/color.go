package util

import (
    "os"

    "github.com/charmbracelet/lipgloss"
)

// NoColor returns true if color output should be disabled.
func NoColor(explicit bool) bool {
    if explicit {
        return true
    }
    return os.Getenv("NO_COLOR") != ""
}

// Palette defines the chrome colors used around the code area.
type Palette struct {
    Primary lipgloss.Color
    Danger  lipgloss.Color
    Warning lipgloss.Color
    Muted   lipgloss.Color
}

// DefaultPalette returns the default palette.
func DefaultPalette() Palette {
    return Palette{
        Primary: lipgloss.Color("#3D6DFF"),
        Danger:  lipgloss.Color("#D9534F"),
        Warning: lipgloss.Color("#F0AD4E"),
        Muted:   lipgloss.Color("#6C757D"),
    }
}
