package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Restart   key.Binding
	Mode      key.Binding
	Length    key.Binding
	WordSet   key.Binding
	Save      key.Binding
	ClearWord key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Restart:   key.NewBinding(key.WithKeys("tab", "enter"), key.WithHelp("tab", "restart")),
		Mode:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "mode")),
		Length:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "length")),
		WordSet:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "word set")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		ClearWord: key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "clear word")),
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Mode, k.Length, k.WordSet, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.ClearWord}}
}
