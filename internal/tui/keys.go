package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	backtab key.Binding
	quit    key.Binding
	search  key.Binding
	tag     key.Binding
	compose key.Binding
	chat    key.Binding
	logout  key.Binding
	refresh key.Binding
	submit  key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	backtab: key.NewBinding(key.WithKeys("shift+tab")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	search:  key.NewBinding(key.WithKeys("/")),
	tag:     key.NewBinding(key.WithKeys("t")),
	compose: key.NewBinding(key.WithKeys("n")),
	chat:    key.NewBinding(key.WithKeys("c")),
	logout:  key.NewBinding(key.WithKeys("l")),
	refresh: key.NewBinding(key.WithKeys("r")),
	submit:  key.NewBinding(key.WithKeys("ctrl+s")),
}
