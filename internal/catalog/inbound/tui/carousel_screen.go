package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shandysiswandi/myfarm/internal/catalog/entity"
	"github.com/shandysiswandi/myfarm/internal/catalog/usecase"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/screen"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
)

const maxQty = 99

type uc interface {
	ListPackages(ctx context.Context) ([]entity.Package, error)
	RefreshPackages(ctx context.Context) ([]entity.Package, error)
	NewCarousel(pkgs []entity.Package) *entity.Carousel
	AddToCart(ctx context.Context, in usecase.AddToCartInput) (*entity.Cart, error)
	Cart(ctx context.Context) (*entity.Cart, error)
}

// Links are the screens reachable from the storefront home.
type Links struct {
	Profile func() screen.Screen
	SignOut func() tea.Cmd
}

type (
	packagesMsg struct {
		pkgs []entity.Package
		err  error
	}
	addedMsg struct {
		name string
		qty  int
		cart *entity.Cart
		err  error
	}
)

// CarouselScreen is the storefront home: a browsable row of package cards.
type CarouselScreen struct {
	ctx      context.Context
	uc       uc
	styles   ui.Styles
	keys     keyMap
	links    Links
	spinner  spinner.Model
	carousel *entity.Carousel
	qty      int
	loading  bool
	adding   bool
	err      string
	width    int
}

func NewCarouselScreen(ctx context.Context, u uc, styles ui.Styles, links Links) *CarouselScreen {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Spinner

	return &CarouselScreen{
		ctx:      ctx,
		uc:       u,
		styles:   styles,
		keys:     defaultKeyMap(),
		links:    links,
		spinner:  sp,
		carousel: entity.NewCarousel(nil, 1),
		qty:      1,
		loading:  true,
	}
}

func (s *CarouselScreen) Init() tea.Cmd {
	return tea.Batch(s.load(false), s.spinner.Tick)
}

func (s *CarouselScreen) Title() string { return "Fresh packages" }

func (s *CarouselScreen) Help() string {
	return joinHelp(s.keys.Prev, s.keys.More, s.keys.Add, s.keys.Cart, s.keys.Refresh, s.keys.Profile, s.keys.SignOut)
}

func (s *CarouselScreen) SetSize(width, _ int) { s.width = width }

func (s *CarouselScreen) load(refresh bool) tea.Cmd {
	return func() tea.Msg {
		list := s.uc.ListPackages
		if refresh {
			list = s.uc.RefreshPackages
		}
		pkgs, err := list(s.ctx)
		return packagesMsg{pkgs: pkgs, err: err}
	}
}

func (s *CarouselScreen) add(p entity.Package, qty int) tea.Cmd {
	return func() tea.Msg {
		cart, err := s.uc.AddToCart(s.ctx, usecase.AddToCartInput{PackageID: p.ID, Qty: qty})
		return addedMsg{name: p.Name, qty: qty, cart: cart, err: err}
	}
}

func (s *CarouselScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case packagesMsg:
		s.loading = false
		if msg.err != nil {
			s.err = goerror.MessageOf(msg.err)
			return s, nil
		}
		s.err = ""
		s.carousel = s.uc.NewCarousel(msg.pkgs)
		s.qty = 1
		return s, nil

	case addedMsg:
		s.adding = false
		if msg.err != nil {
			if errors.Is(msg.err, usecase.ErrAddInFlight) {
				return s, nil
			}
			return s, screen.Notify(ui.ToastError, goerror.MessageOf(msg.err))
		}
		s.qty = 1
		return s, screen.Notify(ui.ToastSuccess, fmt.Sprintf("Added %d × %s · cart has %d items, %s",
			msg.qty, msg.name, msg.cart.TotalQty, entity.FormatRupiah(msg.cart.Total)))

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	return s, nil
}

func (s *CarouselScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Back):
		return screen.Pop
	case key.Matches(msg, s.keys.Profile) && s.links.Profile != nil:
		return screen.Push(s.links.Profile())
	case key.Matches(msg, s.keys.SignOut) && s.links.SignOut != nil:
		return s.links.SignOut()
	case key.Matches(msg, s.keys.Cart):
		return screen.Push(NewCartScreen(s.ctx, s.uc, s.styles))
	case key.Matches(msg, s.keys.Refresh):
		s.loading = true
		return s.load(true)
	}

	if s.loading {
		return nil
	}

	switch {
	case key.Matches(msg, s.keys.Prev):
		s.carousel.Prev()
		s.qty = 1
	case key.Matches(msg, s.keys.Next):
		s.carousel.Next()
		s.qty = 1
	case key.Matches(msg, s.keys.More):
		s.qty = min(s.qty+1, maxQty)
	case key.Matches(msg, s.keys.Less):
		s.qty = max(s.qty-1, 1)
	case key.Matches(msg, s.keys.Add):
		p, ok := s.carousel.Current()
		if !ok || s.adding {
			return nil
		}
		s.adding = true
		return s.add(p, s.qty)
	}

	return nil
}

func (s *CarouselScreen) View() string {
	if s.loading {
		return s.spinner.View() + " Loading packages"
	}
	if s.err != "" {
		return s.styles.Error.Render(s.err) + "\n\n" + s.styles.Muted.Render("Press r to try again")
	}
	if s.carousel.Len() == 0 {
		return s.styles.Muted.Render("No packages available right now")
	}

	visible := s.carousel.Visible()
	cards := make([]string, 0, len(visible))
	for i, p := range visible {
		cards = append(cards, s.renderCard(p, i == s.carousel.Selected()))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")
	b.WriteString(s.styles.Muted.Render(fmt.Sprintf("%d of %d", s.carousel.Index()+1, s.carousel.Len())))
	b.WriteString("\n\n")

	label := fmt.Sprintf("Add %d to cart", s.qty)
	if s.adding {
		label = s.spinner.View() + " Adding"
	}
	b.WriteString(s.styles.RenderButton(label, !s.adding))

	return b.String()
}

func (s *CarouselScreen) renderCard(p entity.Package, selected bool) string {
	style := s.styles.Card
	if selected {
		style = s.styles.CardSelected
	}

	var b strings.Builder
	b.WriteString(s.styles.Title.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(s.styles.Body.Render(entity.FormatRupiah(p.Price) + " / " + p.Unit))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(s.styles.Muted.Render(p.Description))
		b.WriteString("\n")
	}
	if p.Stock > 0 {
		b.WriteString(s.styles.Label.Render(fmt.Sprintf("%d left", p.Stock)))
	} else {
		b.WriteString(s.styles.Warning.Render("Out of stock"))
	}

	return style.Render(b.String())
}
