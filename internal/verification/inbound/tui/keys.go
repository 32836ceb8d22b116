package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Backspace key.Binding
	Delete    key.Binding
	Left      key.Binding
	Right     key.Binding
	Paste     key.Binding
	Verify    key.Binding
	Resend    key.Binding
	Back      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "erase")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete")),
		Left:      key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("←/→", "move")),
		Right:     key.NewBinding(key.WithKeys("right", "tab")),
		Paste:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		Verify:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "verify")),
		Resend:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "resend")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (k keyMap) help() string {
	parts := make([]string, 0, 8)
	for _, b := range []key.Binding{k.Backspace, k.Delete, k.Left, k.Paste, k.Verify, k.Resend, k.Back} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
