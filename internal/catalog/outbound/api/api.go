package api

import (
	"context"

	"github.com/samber/lo"
	"github.com/shandysiswandi/myfarm/internal/catalog/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	pathPackages  = "/api/v1/packages"
	pathCart      = "/api/v1/cart"
	pathCartItems = "/api/v1/cart/items"
)

type client interface {
	Get(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error
	Post(ctx context.Context, path string, in, out any, opts ...apiclient.RequestOption) error
}

type packageResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Unit        string `json:"unit"`
	Stock       int    `json:"stock"`
	Active      bool   `json:"active"`
}

type addCartItemRequest struct {
	PackageID string `json:"package_id"`
	Qty       int    `json:"qty"`
}

type cartItemResponse struct {
	PackageID string `json:"package_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Subtotal  int64  `json:"subtotal"`
}

type cartResponse struct {
	Items    []cartItemResponse `json:"items"`
	TotalQty int                `json:"total_qty"`
	Total    int64              `json:"total"`
}

type API struct {
	client client
	ins    instrument.Instrumentation
}

func NewAPI(c client, ins instrument.Instrumentation) *API {
	return &API{client: c, ins: ins}
}

func (a *API) ListPackages(ctx context.Context) ([]entity.Package, error) {
	ctx, span := a.startSpan(ctx, "ListPackages")
	defer span.End()

	var resp []packageResponse
	if err := a.client.Get(ctx, pathPackages, &resp); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return lo.Map(resp, func(p packageResponse, _ int) entity.Package {
		return entity.Package{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Unit:        p.Unit,
			Stock:       p.Stock,
			Active:      p.Active,
		}
	}), nil
}

func (a *API) AddCartItem(ctx context.Context, idempotencyKey, packageID string, qty int) (*entity.Cart, error) {
	ctx, span := a.startSpan(ctx, "AddCartItem")
	defer span.End()
	span.SetAttributes(attribute.String("package_id", packageID))

	var resp cartResponse
	err := a.client.Post(ctx, pathCartItems,
		addCartItemRequest{PackageID: packageID, Qty: qty}, &resp,
		apiclient.WithIdempotencyKey(idempotencyKey),
	)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return resp.toEntity(), nil
}

func (a *API) GetCart(ctx context.Context) (*entity.Cart, error) {
	ctx, span := a.startSpan(ctx, "GetCart")
	defer span.End()

	var resp cartResponse
	if err := a.client.Get(ctx, pathCart, &resp); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return resp.toEntity(), nil
}

func (r cartResponse) toEntity() *entity.Cart {
	return &entity.Cart{
		Items: lo.Map(r.Items, func(i cartItemResponse, _ int) entity.CartItem {
			return entity.CartItem{PackageID: i.PackageID, Name: i.Name, Qty: i.Qty, Subtotal: i.Subtotal}
		}),
		TotalQty: r.TotalQty,
		Total:    r.Total,
	}
}

func (a *API) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return a.ins.Tracer("catalog.outbound.api").Start(ctx, name)
}
