package app

import (
	"context"

	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shandysiswandi/myfarm/internal/catalog"
	catalogTUI "github.com/shandysiswandi/myfarm/internal/catalog/inbound/tui"
	"github.com/shandysiswandi/myfarm/internal/identity"
	"github.com/shandysiswandi/myfarm/internal/pkg/screen"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
	"github.com/shandysiswandi/myfarm/internal/sandbox"
	"github.com/shandysiswandi/myfarm/internal/verification"
)

func (a *App) initStorefrontModules() {
	styles := ui.NewStyles(ui.DetectTheme())

	verificationMod, err := verification.New(verification.Dependency{
		Ctx:        a.ctx,
		API:        a.api,
		Config:     a.config,
		Instrument: a.ins,
		Clock:      a.clock,
		Goroutine:  a.goroutine,
		Validator:  a.validator,
		Styles:     styles,
	})
	if err != nil {
		slog.Error("failed to init module verification", "error", err)
		os.Exit(1)
	}

	identityMod, err := identity.New(identity.Dependency{
		Ctx:          a.ctx,
		API:          a.api,
		KV:           a.kv,
		Vault:        a.vault,
		Session:      a.session,
		Verification: verificationMod,
		Validator:    a.validator,
		Clock:        a.clock,
		Instrument:   a.ins,
		Styles:       styles,
	})
	if err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}

	catalogMod, err := catalog.New(catalog.Dependency{
		Ctx:        a.ctx,
		API:        a.api,
		Session:    a.session,
		Config:     a.config,
		UUID:       a.uuid,
		Validator:  a.validator,
		Instrument: a.ins,
		Styles:     styles,
	})
	if err != nil {
		slog.Error("failed to init module catalog", "error", err)
		os.Exit(1)
	}
	a.addCloser("Catalog", func(context.Context) error { return catalogMod.Close() })

	var home func() screen.Screen
	home = func() screen.Screen {
		return catalogMod.HomeScreen(catalogTUI.Links{
			Profile: identityMod.ProfileScreen,
			SignOut: func() tea.Cmd { return identityMod.SignOut(false, home) },
		})
	}

	root := identityMod.SignInScreen(home)
	if identityMod.RestoreSession() {
		slog.InfoContext(a.ctx, "restored remembered session", "phone", a.session.Phone())
		root = home()
	}

	nav := screen.NewNavigator(a.config.GetString("app.name"), styles, root)
	a.program = tea.NewProgram(nav, tea.WithAltScreen(), tea.WithContext(a.ctx))
}

func (a *App) initSandboxModule() {
	mod, err := sandbox.New(sandbox.Dependency{
		Router:      a.router,
		Idempotency: a.idemp,
		Config:      a.config,
		Clock:       a.clock,
		UUID:        a.uuid,
		Validator:   a.validator,
		HMAC:        a.hmac,
		Totp:        a.totp,
		JWT:         a.jwt,
		Instrument:  a.ins,
	})
	if err != nil {
		slog.Error("failed to init module sandbox", "error", err)
		os.Exit(1)
	}
	a.addCloser("Sandbox", func(context.Context) error { return mod.Close() })
}
