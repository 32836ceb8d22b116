package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/idempotency"
	"github.com/shandysiswandi/myfarm/internal/sandbox/entity"
)

// ListPackages returns every package, inactive ones included.
func (s *Usecase) ListPackages(ctx context.Context) ([]entity.Package, error) {
	ctx, span := s.startSpan(ctx, "ListPackages")
	defer span.End()

	pkgs, err := s.repoStore.ListPackages(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list packages", "error", err)
		return nil, goerror.NewServer(err)
	}

	return pkgs, nil
}

func (s *Usecase) Cart(ctx context.Context) (*entity.Cart, error) {
	ctx, span := s.startSpan(ctx, "Cart")
	defer span.End()

	phone, err := authPhone(ctx)
	if err != nil {
		return nil, err
	}

	cart, err := s.repoStore.GetCart(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get cart", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	return cart, nil
}

type AddCartItemInput struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=64"`
	PackageID      string `json:"package_id" validate:"required"`
	Qty            int    `json:"qty" validate:"min=1,max=99"`
}

// AddCartItem adds a package to the caller's cart. A replayed idempotency key
// returns the current cart without adding again.
func (s *Usecase) AddCartItem(ctx context.Context, in AddCartItemInput) (*entity.Cart, error) {
	ctx, span := s.startSpan(ctx, "AddCartItem")
	defer span.End()

	phone, err := authPhone(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	pkg, err := s.repoStore.GetPackage(ctx, in.PackageID)
	if errors.Is(err, goerror.ErrNotFound) || (err == nil && !pkg.Active) {
		return nil, goerror.NewBusiness("Package not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get package", "package_id", in.PackageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if in.Qty > pkg.Stock {
		return nil, goerror.NewBusiness(fmt.Sprintf("Only %d %s left", pkg.Stock, pkg.Unit), goerror.CodeConflict)
	}

	var cart *entity.Cart
	err = s.idemp.Exec(ctx, "cart:"+phone+":"+in.IdempotencyKey, func(ctx context.Context) error {
		var err error
		cart, err = s.repoStore.AddCartItem(ctx, phone, *pkg, in.Qty)
		return err
	}, idempotency.WithStateTTL(s.cfg.GetSecond("sandbox.idempotency.ttl_seconds")))

	switch {
	case err == nil:
		return cart, nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.InfoContext(ctx, "replayed add to cart", "idempotency_key", in.IdempotencyKey)
		return s.Cart(ctx)
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		return nil, goerror.NewBusiness("This request is already being processed", goerror.CodeConflict)
	case errors.Is(err, entity.ErrOutOfStock):
		return nil, goerror.NewBusiness(fmt.Sprintf("Your cart cannot hold more than %d %s", pkg.Stock, pkg.Unit), goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrAlreadyFailed):
		return nil, goerror.NewBusiness("A previous request with this key failed, retry with a new key", goerror.CodeConflict)
	default:
		slog.ErrorContext(ctx, "failed to add cart item", "phone", phone, "package_id", in.PackageID, "error", err)
		return nil, goerror.NewServer(err)
	}
}
