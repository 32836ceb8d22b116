package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastKind selects how a toast is colored.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 3 * time.Second

// ToastExpiredMsg hides the toast that was shown with the same sequence.
type ToastExpiredMsg struct {
	seq int
}

// Toast is a transient one-line popup.
type Toast struct {
	kind ToastKind
	text string
	seq  int
}

// Show replaces the current toast and returns the command that hides it
// after d.
func (t *Toast) Show(kind ToastKind, text string, d time.Duration) tea.Cmd {
	if d <= 0 {
		d = DefaultToastDuration
	}

	t.seq++
	t.kind = kind
	t.text = text

	seq := t.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{seq: seq}
	})
}

// Update hides the toast on its own expiry message. Expiry of an older toast
// is ignored.
func (t *Toast) Update(msg tea.Msg) {
	if m, ok := msg.(ToastExpiredMsg); ok && m.seq == t.seq {
		t.text = ""
	}
}

func (t Toast) Visible() bool {
	return t.text != ""
}

func (t Toast) Text() string {
	return t.text
}

func (t Toast) Kind() ToastKind {
	return t.kind
}

func (t Toast) View(s Styles) string {
	if t.text == "" {
		return ""
	}

	switch t.kind {
	case ToastSuccess:
		return s.Success.Render("✔ " + t.text)
	case ToastWarning:
		return s.Warning.Render("! " + t.text)
	case ToastError:
		return s.Error.Render("✖ " + t.text)
	default:
		return s.Info.Render(t.text)
	}
}
