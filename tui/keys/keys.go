package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Escape   key.Binding
	Quit     key.Binding
	Profiles key.Binding
	Settings key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	Sort     key.Binding
	Rescore  key.Binding
	Export   key.Binding
	Churn    key.Binding
	Pin      key.Binding
}

// DefaultKeyMap provides the default set of key bindings.
var DefaultKeyMap = KeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Profiles: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "profiles")),
	Settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("left/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("right/l", "right")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
	Sort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
	Rescore:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "rescore")),
	Export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export csv")),
	Churn:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "churn")),
	Pin:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "pin")),
}
