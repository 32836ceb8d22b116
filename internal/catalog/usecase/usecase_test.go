package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/shandysiswandi/myfarm/internal/catalog/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/uid"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type addCall struct {
	key       string
	packageID string
	qty       int
}

type fakeAPI struct {
	mu       sync.Mutex
	packages []entity.Package
	lists    int
	adds     []addCall
	entered  chan struct{}
	release  chan struct{}
	cart     *entity.Cart
}

func (f *fakeAPI) ListPackages(context.Context) ([]entity.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return f.packages, nil
}

func (f *fakeAPI) AddCartItem(_ context.Context, key, packageID string, qty int) (*entity.Cart, error) {
	f.mu.Lock()
	f.adds = append(f.adds, addCall{key: key, packageID: packageID, qty: qty})
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	return f.cart, nil
}

func (f *fakeAPI) GetCart(context.Context) (*entity.Cart, error) { return f.cart, nil }

type fakeSession bool

func (f fakeSession) SignedIn() bool { return bool(f) }

func newUsecase(t *testing.T, signedIn bool) (*Usecase, *fakeAPI) {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)
	cfg, err := config.NewViperFromBytes("yaml", []byte("catalog:\n  visible: 2\n"))
	require.NoError(t, err)

	api := &fakeAPI{
		packages: []entity.Package{
			{ID: "p1", Name: "Sayur Box", Price: 75000, Active: true},
			{ID: "p2", Name: "Buah Box", Price: 90000, Active: false},
			{ID: "p3", Name: "Beras 5kg", Price: 68000, Active: true},
		},
		cart: &entity.Cart{TotalQty: 2, Total: 150000},
	}

	uc := New(Dependency{
		RepoAPI:    api,
		Session:    fakeSession(signedIn),
		Validator:  v,
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	t.Cleanup(uc.Close)

	return uc, api
}

func TestUsecase_ListPackagesFiltersAndCaches(t *testing.T) {
	uc, api := newUsecase(t, false)
	ctx := context.Background()

	pkgs, err := uc.ListPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, []string{pkgs[0].ID, pkgs[1].ID})

	_, err = uc.ListPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.lists)

	_, err = uc.RefreshPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.lists)
}

func TestUsecase_NewCarouselUsesConfiguredWindow(t *testing.T) {
	uc, _ := newUsecase(t, false)

	pkgs, err := uc.ListPackages(context.Background())
	require.NoError(t, err)

	c := uc.NewCarousel(append(pkgs, entity.Package{ID: "p4"}))
	assert.Len(t, c.Visible(), 2)
}

func TestUsecase_AddToCart(t *testing.T) {
	tests := []struct {
		name     string
		signedIn bool
		in       AddToCartInput
		wantCode goerror.Code
		wantErr  bool
	}{
		{name: "adds", signedIn: true, in: AddToCartInput{PackageID: "p1", Qty: 2}},
		{name: "requires sign in", in: AddToCartInput{PackageID: "p1", Qty: 1}, wantErr: true, wantCode: goerror.CodeUnauthorized},
		{name: "zero qty", signedIn: true, in: AddToCartInput{PackageID: "p1"}, wantErr: true, wantCode: goerror.CodeInvalidInput},
		{name: "qty above limit", signedIn: true, in: AddToCartInput{PackageID: "p1", Qty: 100}, wantErr: true, wantCode: goerror.CodeInvalidInput},
		{name: "missing package", signedIn: true, in: AddToCartInput{Qty: 1}, wantErr: true, wantCode: goerror.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, api := newUsecase(t, tt.signedIn)

			cart, err := uc.AddToCart(context.Background(), tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, goerror.CodeOf(err))
				assert.Empty(t, api.adds)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 2, cart.TotalQty)
			require.Len(t, api.adds, 1)
			assert.True(t, uid.IsUUID(api.adds[0].key))
			assert.Equal(t, "p1", api.adds[0].packageID)
		})
	}
}

func TestUsecase_AddToCartFreshKeyPerCall(t *testing.T) {
	uc, api := newUsecase(t, true)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, AddToCartInput{PackageID: "p1", Qty: 1})
	require.NoError(t, err)
	_, err = uc.AddToCart(ctx, AddToCartInput{PackageID: "p1", Qty: 1})
	require.NoError(t, err)

	require.Len(t, api.adds, 2)
	assert.NotEqual(t, api.adds[0].key, api.adds[1].key)
}

func TestUsecase_AddToCartSingleInFlight(t *testing.T) {
	uc, api := newUsecase(t, true)
	api.entered = make(chan struct{})
	api.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := uc.AddToCart(context.Background(), AddToCartInput{PackageID: "p1", Qty: 1})
		done <- err
	}()

	<-api.entered
	assert.True(t, uc.Adding())

	_, err := uc.AddToCart(context.Background(), AddToCartInput{PackageID: "p3", Qty: 1})
	assert.ErrorIs(t, err, ErrAddInFlight)

	close(api.release)
	require.NoError(t, <-done)
	assert.False(t, uc.Adding())
	assert.Len(t, api.adds, 1)
}

func TestUsecase_CartRequiresSignIn(t *testing.T) {
	uc, _ := newUsecase(t, false)

	_, err := uc.Cart(context.Background())
	assert.Equal(t, goerror.CodeUnauthorized, goerror.CodeOf(err))
}
