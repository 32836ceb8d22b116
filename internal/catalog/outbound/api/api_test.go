package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/myfarm/internal/catalog/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, h http.HandlerFunc) *API {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	return NewAPI(c, instrument.NewNoop())
}

func respond(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestAPI_ListPackages(t *testing.T) {
	a := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathPackages, r.URL.Path)
		respond(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"id": "p1", "name": "Sayur Box", "price": 75000, "unit": "box", "stock": 12, "active": true},
			},
		})
	})

	pkgs, err := a.ListPackages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.Package{
		{ID: "p1", Name: "Sayur Box", Price: 75000, Unit: "box", Stock: 12, Active: true},
	}, pkgs)
}

func TestAPI_AddCartItemSendsIdempotencyKey(t *testing.T) {
	a := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, pathCartItems, r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get(apiclient.HeaderIdempotencyKey))

		var in addCartItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, addCartItemRequest{PackageID: "p1", Qty: 2}, in)

		respond(w, http.StatusCreated, map[string]any{
			"data": map[string]any{
				"items":     []map[string]any{{"package_id": "p1", "name": "Sayur Box", "qty": 2, "subtotal": 150000}},
				"total_qty": 2,
				"total":     150000,
			},
		})
	})

	cart, err := a.AddCartItem(context.Background(), "key-1", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, &entity.Cart{
		Items:    []entity.CartItem{{PackageID: "p1", Name: "Sayur Box", Qty: 2, Subtotal: 150000}},
		TotalQty: 2,
		Total:    150000,
	}, cart)
}

func TestAPI_GetCartUnauthorized(t *testing.T) {
	a := newAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusUnauthorized, map[string]any{"message": "Invalid token"})
	})

	_, err := a.GetCart(context.Background())
	assert.Equal(t, goerror.CodeUnauthorized, goerror.CodeOf(err))
	assert.Equal(t, "Invalid token", goerror.MessageOf(err))
}
