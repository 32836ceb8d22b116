package usecase

import (
	"context"

	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/goroutine"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"github.com/shandysiswandi/myfarm/internal/verification/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoAPI interface {
	SendOTP(ctx context.Context, in entity.SendOTP) (*entity.Challenge, error)
	VerifyOTP(ctx context.Context, code, sessionReference string) (*entity.Verification, error)
}

type Usecase struct {
	repoAPI   repoAPI
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
	goroutine *goroutine.Manager
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoAPI    repoAPI
	Validator  validator.Validator
	Config     config.Config
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoAPI:   dep.RepoAPI,
		validator: dep.Validator,
		cfg:       dep.Config,
		clock:     dep.Clock,
		goroutine: dep.Goroutine,
		ins:       dep.Instrument,
	}
}

// NewWidget opens an OTP entry widget for an already sent code.
func (s *Usecase) NewWidget(p Params) *Widget {
	return NewWidget(Dependency{
		RepoAPI:    s.repoAPI,
		Validator:  s.validator,
		Config:     s.cfg,
		Clock:      s.clock,
		Goroutine:  s.goroutine,
		Instrument: s.ins,
	}, p)
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}
