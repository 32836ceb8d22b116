package catalog

import (
	"context"

	"github.com/shandysiswandi/myfarm/internal/catalog/inbound/tui"
	"github.com/shandysiswandi/myfarm/internal/catalog/outbound/api"
	"github.com/shandysiswandi/myfarm/internal/catalog/usecase"
	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/screen"
	"github.com/shandysiswandi/myfarm/internal/pkg/session"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
	"github.com/shandysiswandi/myfarm/internal/pkg/uid"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	API        *apiclient.Client          `validate:"required"`
	Session    *session.Session           `validate:"required"`
	Config     config.Config              `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Styles     ui.Styles
}

// Module owns the package carousel and the cart.
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
		Session:    dep.Session,
		Validator:  dep.Validator,
		Config:     dep.Config,
		UUID:       dep.UUID,
		Instrument: dep.Instrument,
	})

	return &Module{ctx: dep.Ctx, uc: uc, styles: dep.Styles}, nil
}

// HomeScreen opens the package carousel.
func (m *Module) HomeScreen(links tui.Links) screen.Screen {
	return tui.NewCarouselScreen(m.ctx, m.uc, m.styles, links)
}

func (m *Module) Close() error {
	m.uc.Close()
	return nil
}
