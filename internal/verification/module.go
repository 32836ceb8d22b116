package verification

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/goroutine"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/screen"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"github.com/shandysiswandi/myfarm/internal/verification/inbound/tui"
	"github.com/shandysiswandi/myfarm/internal/verification/outbound/api"
	"github.com/shandysiswandi/myfarm/internal/verification/usecase"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	API        *apiclient.Client          `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Styles     ui.Styles
}

// Module exposes OTP sending and the OTP entry screen to the other
// storefront modules.
type Module struct {
	ctx    context.Context
	uc     *usecase.Usecase
	styles ui.Styles
}

func New(dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Dependency{
		RepoAPI:    api.NewAPI(dep.API, dep.Instrument),
		Validator:  dep.Validator,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Goroutine:  dep.Goroutine,
		Instrument: dep.Instrument,
	})

	return &Module{ctx: dep.Ctx, uc: uc, styles: dep.Styles}, nil
}

// SendOTP delivers a code to the phone number.
func (m *Module) SendOTP(ctx context.Context, phoneSuffix, countryCode string) (*usecase.SendOTPOutput, error) {
	return m.uc.SendOTP(ctx, usecase.SendOTPInput{PhoneSuffix: phoneSuffix, CountryCode: countryCode})
}

// Screen opens the OTP entry screen for a sent code.
func (m *Module) Screen(p usecase.Params, onVerified func(usecase.VerifyResult) tea.Cmd) screen.Screen {
	return tui.NewOTPScreen(m.ctx, m.uc, m.styles, p, onVerified)
}
