package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
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
	sandboxEntity "github.com/shandysiswandi/myfarm/internal/sandbox/entity"
	"github.com/shandysiswandi/myfarm/internal/sandbox/inbound"
)

func (a *App) initConfig(opts Options) {
	path := opts.ConfigPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "path", path, "error", err)
		os.Exit(1)
	}

	if opts.BaseURL != "" {
		cfg.Set("api.base_url", opts.BaseURL)
	}
	if opts.Address != "" {
		cfg.Set("sandbox.address", opts.Address)
	}

	a.config = cfg
	a.addCloser("Config", func(context.Context) error { return a.config.Close() })
}

func (a *App) initInstrument() {
	cfg := &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("app.name") + "-" + a.mode.String(),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         instrument.ParseLevel(a.config.GetString("log.level")),
	}

	// The terminal belongs to the TUI, so the storefront logs to a file.
	if a.mode == ModeStorefront {
		logPath := a.config.GetPath("log.file")
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			slog.Error("failed to create log directory", "path", logPath, "error", err)
			os.Exit(1)
		}

		// #nosec G304 -- path is from trusted config file.
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			slog.Error("failed to open log file", "path", logPath, "error", err)
			os.Exit(1)
		}
		cfg.LogWriter = f
		a.addCloser("LogFile", func(context.Context) error { return f.Close() })
	}

	ins, err := instrument.New(a.ctx, cfg)
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins

	a.addCloser("Instrument", a.ins.Shutdown)
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

func (a *App) initAPIClient() {
	a.session = session.New(a.clock)

	client, err := apiclient.New(apiclient.Config{
		BaseURL:    a.config.GetString("api.base_url"),
		Timeout:    a.config.GetSecond("api.timeout_seconds"),
		RetryMax:   uint64(a.config.GetUint("api.retry_max")),
		Tokens:     a.session,
		UUID:       a.uuid,
		Instrument: a.ins,
	})
	if err != nil {
		slog.Error("failed to init api client", "error", err)
		os.Exit(1)
	}
	a.api = client
}

func (a *App) initDeviceStore() {
	path := a.config.GetPath("store.path")

	kv, err := kvstore.NewFile(path)
	if err != nil {
		slog.Error("failed to open device store", "path", path, "error", err)
		os.Exit(1)
	}
	a.kv = kv

	secret := strings.TrimSpace(a.config.GetString("store.secret"))
	if secret == "" {
		slog.Warn("store.secret is empty, remembered sign-in is disabled")
	}
	a.vault = vault.NewAESGCM(vault.NewDerivedKeyProvider(secret, path))
}

func (a *App) initJWT() {
	signer, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(a.config.GetString("sandbox.jwt.secret")),
		Issuer:     a.config.GetString("sandbox.jwt.issuer"),
		Audiences:  a.config.GetArray("sandbox.jwt.audiences"),
		AccessTTL:  a.config.GetMinute("sandbox.jwt.access_ttl_minutes"),
		RefreshTTL: a.config.GetMinute("sandbox.jwt.refresh_ttl_minutes"),
		Clock:      a.clock,
		UUID:       a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = signer
}

func (a *App) initSandboxLibraries() {
	a.hmac = hash.NewHMACSHA256(a.config.GetString("sandbox.hmac.secret"))
	a.totp = otp.NewTOTP(
		a.config.GetString("sandbox.otp.issuer"),
		a.config.GetUint("sandbox.otp.period_seconds"),
		0,
		sandboxEntity.CodeDigits,
	)
}

func (a *App) initIdempotency() {
	driver := strings.TrimSpace(a.config.GetString("sandbox.idempotency.driver"))
	if driver != "redis" {
		mem := idempotency.NewMemory()
		a.idemp = mem
		a.addCloser("Idempotency", func(context.Context) error { return mem.Close() })
		return
	}

	opt, err := redis.ParseURL(a.config.GetString("sandbox.redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
	a.addCloser("Redis", func(context.Context) error { return a.cacheConn.Close() })
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:          a.config,
		UUID:            a.uuid,
		JWT:             a.jwt,
		Instrument:      a.ins,
		PublicEndpoints: inbound.PublicEndpoints,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("sandbox.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", apiclient.HeaderIdempotencyKey, instrument.HeaderCorrelationID},
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("sandbox.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("sandbox.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("sandbox.http.read_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("sandbox.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("sandbox.http.idle_timeout_seconds"),
	}
}
