package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/myfarm/internal/catalog/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
)

// ErrAddInFlight is returned while a previous add-to-cart is still running.
var ErrAddInFlight = errors.New("catalog: add to cart already in progress")

type AddToCartInput struct {
	PackageID string `json:"package_id" validate:"required"`
	Qty       int    `json:"qty" validate:"min=1,max=99"`
}

// AddToCart puts qty of a package in the signed-in user's cart. Each call
// carries a fresh idempotency key so a retried request is applied once.
func (s *Usecase) AddToCart(ctx context.Context, in AddToCartInput) (*entity.Cart, error) {
	ctx, span := s.startSpan(ctx, "AddToCart")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.ensureSignedIn(); err != nil {
		return nil, err
	}

	if !s.adding.CompareAndSwap(false, true) {
		return nil, ErrAddInFlight
	}
	defer s.adding.Store(false)

	key := s.uuid.Generate()
	cart, err := s.repoAPI.AddCartItem(ctx, key, in.PackageID, in.Qty)
	if err != nil {
		slog.ErrorContext(ctx, "failed to add to cart", "package_id", in.PackageID, "idempotency_key", key, "error", err)
		return nil, err
	}

	return cart, nil
}

// Adding reports whether an add-to-cart is in flight.
func (s *Usecase) Adding() bool {
	return s.adding.Load()
}

func (s *Usecase) Cart(ctx context.Context) (*entity.Cart, error) {
	ctx, span := s.startSpan(ctx, "Cart")
	defer span.End()

	if err := s.ensureSignedIn(); err != nil {
		return nil, err
	}

	cart, err := s.repoAPI.GetCart(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get cart", "error", err)
		return nil, err
	}

	return cart, nil
}
