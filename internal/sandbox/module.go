package sandbox

import (
	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/hash"
	"github.com/shandysiswandi/myfarm/internal/pkg/idempotency"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/jwt"
	"github.com/shandysiswandi/myfarm/internal/pkg/otp"
	"github.com/shandysiswandi/myfarm/internal/pkg/router"
	"github.com/shandysiswandi/myfarm/internal/pkg/uid"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"github.com/shandysiswandi/myfarm/internal/sandbox/entity"
	"github.com/shandysiswandi/myfarm/internal/sandbox/inbound"
	"github.com/shandysiswandi/myfarm/internal/sandbox/outbound/memory"
	"github.com/shandysiswandi/myfarm/internal/sandbox/usecase"
)

type Dependency struct {
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Config      config.Config              `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Totp        otp.OTP                    `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
}

// Module is the local stand-in for the MyFarm API. State lives in memory and
// is lost on restart.
type Module struct {
	store *memory.Store
}

func New(dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	store := memory.New(dep.Instrument, entity.SeedPackages())

	uc := usecase.New(usecase.Dependency{
		RepoStore:   store,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		Clock:       dep.Clock,
		UUID:        dep.UUID,
		HMAC:        dep.HMAC,
		Totp:        dep.Totp,
		JWT:         dep.JWT,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return &Module{store: store}, nil
}

func (m *Module) Close() error {
	return m.store.Close()
}
