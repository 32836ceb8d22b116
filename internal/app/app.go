package app

import (
	"context"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/goroutine"
	"github.com/shandysiswandi/myfarm/internal/pkg/hash"
	"github.com/shandysiswandi/myfarm/internal/pkg/idempotency"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/jwt"
	"github.com/shandysiswandi/myfarm/internal/pkg/kvstore"
	"github.com/shandysiswandi/myfarm/internal/pkg/otp"
	"github.com/shandysiswandi/myfarm/internal/pkg/router"
	"github.com/shandysiswandi/myfarm/internal/pkg/session"
	"github.com/shandysiswandi/myfarm/internal/pkg/uid"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"github.com/shandysiswandi/myfarm/internal/pkg/vault"
)

// Mode selects what the process runs.
type Mode int

const (
	// ModeStorefront runs the terminal storefront against the MyFarm API.
	ModeStorefront Mode = iota
	// ModeSandbox runs the local stand-in for the MyFarm API.
	ModeSandbox
)

func (m Mode) String() string {
	if m == ModeSandbox {
		return "sandbox"
	}
	return "storefront"
}

// Options are the command line overrides applied on top of the config file.
type Options struct {
	ConfigPath string
	// BaseURL overrides api.base_url when set.
	BaseURL string
	// Address overrides sandbox.address when set.
	Address string
}

// App wires dependencies and manages the lifecycle of either mode.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	mode   Mode

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID

	// storefront resources
	api     *apiclient.Client
	kv      kvstore.Store
	vault   vault.Encryptor
	session *session.Session
	program *tea.Program

	// sandbox resources
	hmac       hash.Hash
	totp       otp.OTP
	jwt        jwt.JWT
	cacheConn  *redis.Client
	idemp      idempotency.Idempotency
	router     *router.Router
	httpServer *http.Server

	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// New initializes the application for mode and returns an App instance.
func New(mode Mode, opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		mode:   mode,
	}

	app.initConfig(opts)
	app.initInstrument()
	app.initLibraries()

	switch mode {
	case ModeSandbox:
		app.initJWT()
		app.initSandboxLibraries()
		app.initIdempotency()
		app.initHTTPServer()
		app.initSandboxModule()
	default:
		app.initAPIClient()
		app.initDeviceStore()
		app.initStorefrontModules()
	}

	return app
}
