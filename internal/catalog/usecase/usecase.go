package usecase

import (
	"context"

	"github.com/jellydator/ttlcache/v3"
	"github.com/shandysiswandi/myfarm/internal/catalog/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/uid"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

const packagesKey = "packages"

type repoAPI interface {
	ListPackages(ctx context.Context) ([]entity.Package, error)
	AddCartItem(ctx context.Context, idempotencyKey, packageID string, qty int) (*entity.Cart, error)
	GetCart(ctx context.Context) (*entity.Cart, error)
}

type session interface {
	SignedIn() bool
}

type Usecase struct {
	repoAPI   repoAPI
	session   session
	validator validator.Validator
	config    config.Config
	uuid      uid.StringID
	ins       instrument.Instrumentation

	packages *ttlcache.Cache[string, []entity.Package]
	adding   atomic.Bool
}

type Dependency struct {
	RepoAPI    repoAPI
	Session    session
	Validator  validator.Validator
	Config     config.Config
	UUID       uid.StringID
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	packages := ttlcache.New(
		ttlcache.WithTTL[string, []entity.Package](dep.Config.GetSecond("catalog.cache_ttl_seconds")),
		ttlcache.WithDisableTouchOnHit[string, []entity.Package](),
	)
	go packages.Start()

	return &Usecase{
		repoAPI:   dep.RepoAPI,
		session:   dep.Session,
		validator: dep.Validator,
		config:    dep.Config,
		uuid:      dep.UUID,
		ins:       dep.Instrument,
		packages:  packages,
	}
}

// Close stops the package cache janitor.
func (s *Usecase) Close() {
	s.packages.Stop()
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("catalog.usecase").Start(ctx, name)
}

func (s *Usecase) ensureSignedIn() error {
	if !s.session.SignedIn() {
		return goerror.NewBusiness("Please sign in to add items to your cart", goerror.CodeUnauthorized)
	}
	return nil
}
