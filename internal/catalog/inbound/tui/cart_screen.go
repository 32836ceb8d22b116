package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shandysiswandi/myfarm/internal/catalog/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/screen"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
)

type cartMsg struct {
	cart *entity.Cart
	err  error
}

// CartScreen lists what is in the signed-in user's cart.
type CartScreen struct {
	ctx    context.Context
	uc     uc
	styles ui.Styles
	keys   keyMap
	cart   *entity.Cart
	err    string
}

func NewCartScreen(ctx context.Context, u uc, styles ui.Styles) *CartScreen {
	return &CartScreen{ctx: ctx, uc: u, styles: styles, keys: defaultKeyMap()}
}

func (s *CartScreen) Init() tea.Cmd {
	return func() tea.Msg {
		cart, err := s.uc.Cart(s.ctx)
		return cartMsg{cart: cart, err: err}
	}
}

func (s *CartScreen) Title() string { return "Cart" }

func (s *CartScreen) Help() string { return joinHelp(s.keys.Refresh, s.keys.Back) }

func (s *CartScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case cartMsg:
		if msg.err != nil {
			s.err = goerror.MessageOf(msg.err)
			return s, nil
		}
		s.err = ""
		s.cart = msg.cart

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Back):
			return s, screen.Pop
		case key.Matches(msg, s.keys.Refresh):
			return s, s.Init()
		}
	}

	return s, nil
}

func (s *CartScreen) View() string {
	if s.err != "" {
		return s.styles.Error.Render(s.err)
	}
	if s.cart == nil {
		return s.styles.Muted.Render("Loading cart")
	}
	if len(s.cart.Items) == 0 {
		return s.styles.Muted.Render("Your cart is empty")
	}

	var b strings.Builder
	for _, it := range s.cart.Items {
		b.WriteString(s.styles.Body.Render(fmt.Sprintf("%-28s x%-3d %s", it.Name, it.Qty, entity.FormatRupiah(it.Subtotal))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.styles.Title.Render(fmt.Sprintf("%d items · %s", s.cart.TotalQty, entity.FormatRupiah(s.cart.Total))))

	return b.String()
}
