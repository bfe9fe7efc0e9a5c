package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Navigate  key.Binding // legend only
	Quit      key.Binding
	Interrupt key.Binding
	Scan      key.Binding
	Pair      key.Binding
	Connect   key.Binding
	Dismiss   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
		),
		Navigate: key.NewBinding(
			key.WithKeys("up", "down", "left", "right"),
			key.WithHelp("◀▼▲▶", "navigate"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		// Raw mode turns ^C into a key press instead of SIGINT.
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		Scan: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scan"),
		),
		Pair: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "pair"),
		),
		Connect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "connect"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// legendBindings returns what the footer shows for the current state.
func (k keyMap) legendBindings(errorShown bool, pairing bool) []key.Binding {
	if errorShown {
		return []key.Binding{k.Dismiss}
	}
	activate := k.Connect
	if pairing {
		activate = k.Pair
	}
	return []key.Binding{k.Navigate, k.Quit, k.Scan, activate}
}
