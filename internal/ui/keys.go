package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// mouseHelp describes the pointer bindings, which bubbles/key cannot express.
var mouseHelp = []key.Binding{
	key.NewBinding(key.WithKeys("left-click"), key.WithHelp("click", "recolor")),
	key.NewBinding(key.WithKeys("right-click"), key.WithHelp("right-click", "shape")),
	key.NewBinding(key.WithKeys("wheel"), key.WithHelp("wheel", "volume")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return append([]key.Binding{k.Pause}, append(mouseHelp, k.Quit)...)
}
