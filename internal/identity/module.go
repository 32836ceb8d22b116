package identity

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shandysiswandi/myfarm/internal/identity/inbound/tui"
	"github.com/shandysiswandi/myfarm/internal/identity/outbound/api"
	"github.com/shandysiswandi/myfarm/internal/identity/outbound/store"
	"github.com/shandysiswandi/myfarm/internal/identity/usecase"
	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/kvstore"
	"github.com/shandysiswandi/myfarm/internal/pkg/screen"
	"github.com/shandysiswandi/myfarm/internal/pkg/session"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"github.com/shandysiswandi/myfarm/internal/pkg/vault"
	"github.com/shandysiswandi/myfarm/internal/verification"
	verificationUC "github.com/shandysiswandi/myfarm/internal/verification/usecase"
)

type Dependency struct {
	Ctx          context.Context            `validate:"required"`
	API          *apiclient.Client          `validate:"required"`
	KV           kvstore.Store              `validate:"required"`
	Vault        vault.Encryptor            `validate:"required"`
	Session      *session.Session           `validate:"required"`
	Verification *verification.Module       `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`
	Styles       ui.Styles
}

// Module owns sign-in, the remembered device credentials and the profile.
type Module struct {
	ctx          context.Context
	uc           *usecase.Usecase
	verification *verification.Module
	styles       ui.Styles
}

func New(dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Dependency{
		RepoAPI:        api.NewAPI(dep.API, dep.Instrument),
		RepoCredential: store.New(dep.KV, dep.Vault),
		OTP:            otpSender{m: dep.Verification},
		Session:        dep.Session,
		Validator:      dep.Validator,
		Clock:          dep.Clock,
		Instrument:     dep.Instrument,
	})

	return &Module{ctx: dep.Ctx, uc: uc, verification: dep.Verification, styles: dep.Styles}, nil
}

// RestoreSession signs the remembered user back in when their tokens are
// still valid.
func (m *Module) RestoreSession() bool {
	return m.uc.RestoreSession(m.ctx)
}

// SignInScreen opens the phone number form. After the OTP is verified the
// navigator is reset to home.
func (m *Module) SignInScreen(home func() screen.Screen) screen.Screen {
	return tui.NewSignInScreen(m.ctx, m.uc, m.styles, m.verifier, home)
}

func (m *Module) ProfileScreen() screen.Screen {
	return tui.NewProfileScreen(m.ctx, m.uc, m.styles)
}

// SignOut ends the session and shows the sign-in screen again.
func (m *Module) SignOut(forget bool, home func() screen.Screen) tea.Cmd {
	return func() tea.Msg {
		if err := m.uc.SignOut(m.ctx, forget); err != nil {
			return screen.ToastMsg{Kind: ui.ToastError, Text: "Failed to sign out"}
		}
		return screen.ResetMsg{Screen: m.SignInScreen(home)}
	}
}

func (m *Module) verifier(out *usecase.SignInOutput, onVerified func(accessToken, refreshToken string) tea.Cmd) screen.Screen {
	return m.verification.Screen(verificationUC.Params{
		PhoneSuffix:      out.PhoneSuffix,
		CountryCode:      out.CountryCode,
		SessionReference: out.SessionReference,
	}, func(r verificationUC.VerifyResult) tea.Cmd {
		return onVerified(r.AccessToken, r.RefreshToken)
	})
}

type otpSender struct {
	m *verification.Module
}

func (s otpSender) SendOTP(ctx context.Context, phoneSuffix, countryCode string) (string, error) {
	out, err := s.m.SendOTP(ctx, phoneSuffix, countryCode)
	if err != nil {
		return "", err
	}
	return out.SessionReference, nil
}
