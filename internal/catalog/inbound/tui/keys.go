package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Prev    key.Binding
	Next    key.Binding
	More    key.Binding
	Less    key.Binding
	Add     key.Binding
	Cart    key.Binding
	Refresh key.Binding
	Profile key.Binding
	SignOut key.Binding
	Back    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "browse")),
		Next:    key.NewBinding(key.WithKeys("right", "l")),
		More:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "qty")),
		Less:    key.NewBinding(key.WithKeys("-")),
		Add:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add to cart")),
		Cart:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cart")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		SignOut: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out")),
		Back:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
	}
}

func joinHelp(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
