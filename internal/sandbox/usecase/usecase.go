package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/hash"
	"github.com/shandysiswandi/myfarm/internal/pkg/idempotency"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/jwt"
	"github.com/shandysiswandi/myfarm/internal/pkg/otp"
	"github.com/shandysiswandi/myfarm/internal/pkg/uid"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"github.com/shandysiswandi/myfarm/internal/sandbox/entity"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

type repoStore interface {
	SaveSession(ctx context.Context, key string, s entity.OTPSession, ttl time.Duration) error
	GetSession(ctx context.Context, key string) (*entity.OTPSession, error)
	IncrementAttempts(ctx context.Context, key string) (int, error)
	DeleteSession(ctx context.Context, key string) error

	GetProfile(ctx context.Context, phone string) (*entity.Profile, error)
	SaveProfile(ctx context.Context, p entity.Profile) error

	ListPackages(ctx context.Context) ([]entity.Package, error)
	GetPackage(ctx context.Context, id string) (*entity.Package, error)
	GetCart(ctx context.Context, phone string) (*entity.Cart, error)
	AddCartItem(ctx context.Context, phone string, pkg entity.Package, qty int) (*entity.Cart, error)
}

type Usecase struct {
	repoStore repoStore
	idemp     idempotency.Idempotency
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
	uuid      uid.StringID
	hmac      hash.Hash
	totp      otp.OTP
	jwt       jwt.JWT
	ins       instrument.Instrumentation

	verifications metric.Int64Counter
}

type Dependency struct {
	RepoStore   repoStore
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	Clock       clock.Clocker
	UUID        uid.StringID
	HMAC        hash.Hash
	Totp        otp.OTP
	JWT         jwt.JWT
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	verifications, err := dep.Instrument.Meter("sandbox.usecase").Int64Counter("sandbox.otp.verifications",
		metric.WithDescription("OTP verification outcomes by status code"))
	if err != nil {
		slog.Warn("failed to create otp verification counter", "error", err)
		verifications = metricnoop.Int64Counter{}
	}

	return &Usecase{
		repoStore: dep.RepoStore,
		idemp:     dep.Idempotency,
		validator: dep.Validator,
		cfg:       dep.Config,
		clock:     dep.Clock,
		uuid:      dep.UUID,
		hmac:      dep.HMAC,
		totp:      dep.Totp,
		jwt:       dep.JWT,
		ins:       dep.Instrument,

		verifications: verifications,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("sandbox.usecase").Start(ctx, name)
}

// authPhone returns the phone of the bearer token the router verified.
func authPhone(ctx context.Context) (string, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.Phone == "" {
		return "", goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm.Phone, nil
}

// sessionKey hashes a session reference so the raw value is never kept.
func (s *Usecase) sessionKey(ref string) (string, error) {
	h, err := s.hmac.Hash(ref)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
