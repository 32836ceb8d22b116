package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shandysiswandi/myfarm/internal/catalog/entity"
	"github.com/shandysiswandi/myfarm/internal/catalog/usecase"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/screen"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUC struct {
	pkgs      []entity.Package
	refreshed int
	adds      []usecase.AddToCartInput
	addErr    error
	cart      *entity.Cart
}

func (f *fakeUC) ListPackages(context.Context) ([]entity.Package, error) { return f.pkgs, nil }

func (f *fakeUC) RefreshPackages(context.Context) ([]entity.Package, error) {
	f.refreshed++
	return f.pkgs, nil
}

func (f *fakeUC) NewCarousel(pkgs []entity.Package) *entity.Carousel {
	return entity.NewCarousel(pkgs, 2)
}

func (f *fakeUC) AddToCart(_ context.Context, in usecase.AddToCartInput) (*entity.Cart, error) {
	f.adds = append(f.adds, in)
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.cart, nil
}

func (f *fakeUC) Cart(context.Context) (*entity.Cart, error) { return f.cart, nil }

func keyRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func loaded(t *testing.T, u *fakeUC, links Links) *CarouselScreen {
	t.Helper()

	s := NewCarouselScreen(context.Background(), u, ui.NewStyles(ui.LightTheme()), links)
	assert.Contains(t, s.View(), "Loading packages")
	s.Update(s.load(false)())
	return s
}

func newFake() *fakeUC {
	return &fakeUC{
		pkgs: []entity.Package{
			{ID: "p1", Name: "Sayur Box", Price: 75000, Unit: "box", Stock: 3, Active: true},
			{ID: "p2", Name: "Beras 5kg", Price: 68000, Unit: "sack", Active: true},
			{ID: "p3", Name: "Telur", Price: 30000, Unit: "tray", Stock: 9, Active: true},
		},
		cart: &entity.Cart{
			Items:    []entity.CartItem{{PackageID: "p2", Name: "Beras 5kg", Qty: 3, Subtotal: 204000}},
			TotalQty: 3,
			Total:    204000,
		},
	}
}

func TestCarouselScreen_BrowseAndAdd(t *testing.T) {
	u := newFake()
	s := loaded(t, u, Links{})

	view := s.View()
	assert.Contains(t, view, "Sayur Box")
	assert.Contains(t, view, "Beras 5kg")
	assert.NotContains(t, view, "Telur")
	assert.Contains(t, view, "1 of 3")

	s.Update(tea.KeyMsg{Type: tea.KeyRight})
	s.Update(keyRune('+'))
	s.Update(keyRune('+'))
	assert.Contains(t, s.View(), "Add 3 to cart")

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Contains(t, s.View(), "Adding")

	_, again := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, again, "second enter while adding is ignored")

	_, cmd = s.Update(cmd())
	require.NotNil(t, cmd)
	toast, ok := cmd().(screen.ToastMsg)
	require.True(t, ok)
	assert.Equal(t, ui.ToastSuccess, toast.Kind)
	assert.Equal(t, "Added 3 × Beras 5kg · cart has 3 items, Rp 204.000", toast.Text)
	assert.Equal(t, []usecase.AddToCartInput{{PackageID: "p2", Qty: 3}}, u.adds)
	assert.Contains(t, s.View(), "Add 1 to cart")
}

func TestCarouselScreen_QtyBounds(t *testing.T) {
	s := loaded(t, newFake(), Links{})

	s.Update(keyRune('-'))
	assert.Equal(t, 1, s.qty)

	for range maxQty + 5 {
		s.Update(keyRune('+'))
	}
	assert.Equal(t, maxQty, s.qty)
}

func TestCarouselScreen_AddErrorToasts(t *testing.T) {
	u := newFake()
	u.addErr = goerror.NewBusiness("Please sign in to add items to your cart", goerror.CodeUnauthorized)
	s := loaded(t, u, Links{})

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd = s.Update(cmd())
	assert.Equal(t, screen.ToastMsg{Kind: ui.ToastError, Text: "Please sign in to add items to your cart"}, cmd())
}

func TestCarouselScreen_Links(t *testing.T) {
	profile := &CartScreen{}
	signedOut := false
	u := newFake()
	s := loaded(t, u, Links{
		Profile: func() screen.Screen { return profile },
		SignOut: func() tea.Cmd {
			return func() tea.Msg {
				signedOut = true
				return nil
			}
		},
	})

	_, cmd := s.Update(keyRune('p'))
	assert.Equal(t, screen.PushMsg{Screen: profile}, cmd())

	_, cmd = s.Update(keyRune('o'))
	cmd()
	assert.True(t, signedOut)

	_, cmd = s.Update(keyRune('r'))
	s.Update(cmd())
	assert.Equal(t, 1, u.refreshed)
	assert.Equal(t, 0, s.carousel.Index())
}

func TestCartScreen(t *testing.T) {
	u := newFake()
	s := NewCartScreen(context.Background(), u, ui.NewStyles(ui.LightTheme()))
	assert.Contains(t, s.View(), "Loading cart")

	s.Update(s.Init()())
	view := s.View()
	assert.Contains(t, view, "Beras 5kg")
	assert.Contains(t, view, "3 items · Rp 204.000")

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screen.PopMsg{}, cmd())
}
