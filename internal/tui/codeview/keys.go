package codeview

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the code view bindings. It implements help.KeyMap.
type KeyMap struct {
	Prev key.Binding
	Next key.Binding
	Play key.Binding
	Jump key.Binding
	Diff key.Binding
	Copy key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Next: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Play: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump"),
		),
		Diff: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "diff view")),
		Copy: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Play, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Jump},
		{k.Play, k.Diff, k.Copy},
		{k.Help, k.Quit},
	}
}
