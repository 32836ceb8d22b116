package usecase

import (
	"context"

	"github.com/shandysiswandi/myfarm/internal/identity/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoAPI interface {
	GetProfile(ctx context.Context) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, in entity.ProfileFields) (*entity.Profile, error)
}

type repoCredential interface {
	Load(ctx context.Context) (*entity.Credentials, error)
	Save(ctx context.Context, c entity.Credentials) error
	Forget(ctx context.Context) error
	LoadTokens(ctx context.Context) (*entity.Tokens, error)
	SaveTokens(ctx context.Context, t entity.Tokens) error
	ForgetTokens(ctx context.Context) error
}

type otpSender interface {
	SendOTP(ctx context.Context, phoneSuffix, countryCode string) (sessionReference string, err error)
}

type session interface {
	Start(phone, access, refresh string) error
	Clear()
	SignedIn() bool
	Phone() string
}

type Usecase struct {
	repoAPI        repoAPI
	repoCredential repoCredential
	otp            otpSender
	session        session
	validator      validator.Validator
	clock          clock.Clocker
	ins            instrument.Instrumentation
}

type Dependency struct {
	RepoAPI        repoAPI
	RepoCredential repoCredential
	OTP            otpSender
	Session        session
	Validator      validator.Validator
	Clock          clock.Clocker
	Instrument     instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoAPI:        dep.RepoAPI,
		repoCredential: dep.RepoCredential,
		otp:            dep.OTP,
		session:        dep.Session,
		validator:      dep.Validator,
		clock:          dep.Clock,
		ins:            dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) ensureSignedIn() error {
	if !s.session.SignedIn() {
		return goerror.NewBusiness("Please sign in first", goerror.CodeUnauthorized)
	}
	return nil
}
