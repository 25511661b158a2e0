package listbox

import (
	"charm.land/bubbles/v2/key"
)

// KeyMap defines the keys a list responds to while armed.
type KeyMap struct {
	Down  key.Binding
	Up    key.Binding
	Enter key.Binding
}

// DefaultKeyMap returns the arrow and enter bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next option")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous option")),
		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	}
}

// setEnabled switches every binding on or off. A disabled binding never
// matches, so a disarmed list lets keys through untouched.
func (k *KeyMap) setEnabled(enabled bool) {
	k.Down.SetEnabled(enabled)
	k.Up.SetEnabled(enabled)
	k.Enter.SetEnabled(enabled)
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
