package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/myfarm/internal/catalog/entity"
)

// ListPackages returns the active packages, served from cache while fresh.
func (s *Usecase) ListPackages(ctx context.Context) ([]entity.Package, error) {
	ctx, span := s.startSpan(ctx, "ListPackages")
	defer span.End()

	if item := s.packages.Get(packagesKey); item != nil {
		return item.Value(), nil
	}

	all, err := s.repoAPI.ListPackages(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list packages", "error", err)
		return nil, err
	}

	active := lo.Filter(all, func(p entity.Package, _ int) bool { return p.Active })
	s.packages.Set(packagesKey, active, 0)

	return active, nil
}

// RefreshPackages drops the cached list and fetches it again.
func (s *Usecase) RefreshPackages(ctx context.Context) ([]entity.Package, error) {
	s.packages.Delete(packagesKey)
	return s.ListPackages(ctx)
}

// NewCarousel pages through pkgs using the configured window size.
func (s *Usecase) NewCarousel(pkgs []entity.Package) *entity.Carousel {
	return entity.NewCarousel(pkgs, s.config.GetInt("catalog.visible"))
}
