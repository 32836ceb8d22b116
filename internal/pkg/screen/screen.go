// Package screen stacks bubbletea screens and owns the chrome around them:
// header, toast line and key help.
package screen

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
)

// Screen is one page of the storefront.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	Title() string
}

// Sizer is implemented by screens that lay out against the terminal size.
type Sizer interface {
	SetSize(width, height int)
}

// Helper is implemented by screens that show key help in the footer.
type Helper interface {
	Help() string
}

// Closer is implemented by screens that hold resources past their removal.
type Closer interface {
	Close()
}

type (
	PushMsg    struct{ Screen Screen }
	ReplaceMsg struct{ Screen Screen }
	PopMsg     struct{}
	ResetMsg   struct{ Screen Screen }
	ToastMsg   struct {
		Kind     ui.ToastKind
		Text     string
		Duration time.Duration
	}
)

// Push opens s on top of the current screen.
func Push(s Screen) tea.Cmd {
	return func() tea.Msg { return PushMsg{Screen: s} }
}

// Replace swaps the current screen for s.
func Replace(s Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceMsg{Screen: s} }
}

// Pop closes the current screen.
func Pop() tea.Msg {
	return PopMsg{}
}

// Reset closes every screen and starts over from s.
func Reset(s Screen) tea.Cmd {
	return func() tea.Msg { return ResetMsg{Screen: s} }
}

// Notify shows a toast.
func Notify(kind ui.ToastKind, text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Kind: kind, Text: text} }
}

// Navigator is the root tea.Model of the storefront.
type Navigator struct {
	appName string
	styles  ui.Styles
	stack   []Screen
	toast   ui.Toast
	width   int
	height  int
}

// NewNavigator returns a navigator showing root.
func NewNavigator(appName string, styles ui.Styles, root Screen) *Navigator {
	return &Navigator{
		appName: appName,
		styles:  styles,
		stack:   []Screen{root},
	}
}

func (n *Navigator) Init() tea.Cmd {
	return n.Current().Init()
}

// Current returns the top screen.
func (n *Navigator) Current() Screen {
	return n.stack[len(n.stack)-1]
}

// Depth returns the number of stacked screens.
func (n *Navigator) Depth() int {
	return len(n.stack)
}

// Toast returns the toast currently shown.
func (n *Navigator) Toast() ui.Toast {
	return n.toast
}

func (n *Navigator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			n.closeAll()
			return n, tea.Quit
		}

	case tea.WindowSizeMsg:
		n.width, n.height = msg.Width, msg.Height
		for _, s := range n.stack {
			n.size(s)
		}
		return n, nil

	case PushMsg:
		n.size(msg.Screen)
		n.stack = append(n.stack, msg.Screen)
		return n, msg.Screen.Init()

	case ReplaceMsg:
		n.close(n.Current())
		n.size(msg.Screen)
		n.stack[len(n.stack)-1] = msg.Screen
		return n, msg.Screen.Init()

	case PopMsg:
		if len(n.stack) == 1 {
			n.closeAll()
			return n, tea.Quit
		}
		n.close(n.Current())
		n.stack = n.stack[:len(n.stack)-1]
		return n, nil

	case ResetMsg:
		n.closeAll()
		n.size(msg.Screen)
		n.stack = []Screen{msg.Screen}
		return n, msg.Screen.Init()

	case ToastMsg:
		return n, n.toast.Show(msg.Kind, msg.Text, msg.Duration)

	case ui.ToastExpiredMsg:
		n.toast.Update(msg)
		return n, nil
	}

	next, cmd := n.Current().Update(msg)
	n.stack[len(n.stack)-1] = next
	return n, cmd
}

func (n *Navigator) View() string {
	cur := n.Current()

	var b strings.Builder
	b.WriteString(n.styles.Header.Render(n.appName + " · " + cur.Title()))
	b.WriteString("\n\n")
	b.WriteString(cur.View())
	b.WriteString("\n\n")

	if n.toast.Visible() {
		b.WriteString(n.toast.View(n.styles))
		b.WriteString("\n")
	}

	help := "ctrl+c quit"
	if h, ok := cur.(Helper); ok && h.Help() != "" {
		help = h.Help() + " · " + help
	}
	b.WriteString(n.styles.Footer.Render(help))

	return b.String()
}

func (n *Navigator) size(s Screen) {
	if sz, ok := s.(Sizer); ok && n.width > 0 {
		sz.SetSize(n.width, n.height)
	}
}

func (n *Navigator) close(s Screen) {
	if c, ok := s.(Closer); ok {
		c.Close()
	}
}

func (n *Navigator) closeAll() {
	for i := len(n.stack) - 1; i >= 0; i-- {
		n.close(n.stack[i])
	}
}
