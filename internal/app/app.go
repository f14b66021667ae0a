package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"orgadmin/internal/config"
	"orgadmin/internal/controller"
	"orgadmin/internal/identity"
	"orgadmin/internal/logger"
	"orgadmin/internal/querycache"
	"orgadmin/internal/repository"
	"orgadmin/internal/repository/memory"
	"orgadmin/internal/router"
	"orgadmin/internal/service"
	"orgadmin/internal/views"
)

// Store is everything the application keeps in its database.
type Store interface {
	service.Store
	identity.Accounts
	Close() error
}

type App struct {
	store      Store
	identity   identity.Provider
	cache      *querycache.Cache
	service    *service.Service
	controller *controller.Controller
	handler    http.Handler
	stopSig    chan os.Signal
	cfg        *config.Config
	log        *zerolog.Logger

	Done chan struct{}
}

type option func(*App)

func WithConfig(cfg *config.Config) option {
	return func(app *App) {
		app.cfg = cfg
	}
}

func WithLogger(log zerolog.Logger) option {
	return func(app *App) {
		app.log = &log
	}
}

// WithStore replaces the storage selected by the configuration.
func WithStore(store Store) option {
	return func(app *App) {
		app.store = store
	}
}

// WithIdentity replaces the identity provider selected by the configuration.
func WithIdentity(provider identity.Provider) option {
	return func(app *App) {
		app.identity = provider
	}
}

func NewApp(ctx context.Context, opts ...option) (*App, error) {
	var err error

	app := &App{
		stopSig: make(chan os.Signal, 2),
		Done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.cfg == nil {
		app.cfg, err = config.NewConfig()
		if err != nil {
			return nil, err
		}
	}

	err = app.cfg.Validate()
	if err != nil {
		return nil, err
	}

	if app.log == nil {
		log := logger.Setup(app.cfg.LogLevel, app.cfg.LogPretty)
		app.log = &log
	}
	ctx = app.log.WithContext(ctx)

	if app.store == nil {
		app.store, err = newStore(ctx, app.cfg)
		if err != nil {
			return nil, fmt.Errorf("app.NewApp: %w", err)
		}
	}

	if app.identity == nil {
		app.identity = newIdentity(app.cfg, app.store)
	}

	renderer, err := views.New()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("app.NewApp: %w", err), app.store.Close())
	}

	app.cache = querycache.New(app.cfg.CacheTTL)
	app.service = service.New(app.store, app.identity, app.cache, *app.log)
	app.controller = controller.NewController(app.service, renderer)
	app.handler = router.NewRouter(app.controller, app.cfg.CORSOrigins, *app.log)

	app.log.Info().
		Str("storage", app.cfg.Storage).
		Str("identity", app.cfg.IdentityProvider).
		Dur("cache_ttl", app.cfg.CacheTTL).
		Msg("Application configured")

	return app, nil
}

func newStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.New(), nil
	default:
		return repository.NewRepository(ctx, nil, &cfg.PostgresConfig)
	}
}

func newIdentity(cfg *config.Config, accounts identity.Accounts) identity.Provider {
	switch cfg.IdentityProvider {
	case config.IdentityGoTrue:
		return identity.NewGoTrue(&cfg.IdentityConfig)
	default:
		return identity.NewLocal(accounts)
	}
}

// Handler is the complete HTTP surface of the application.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		signal.Notify(app.stopSig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		sig := <-app.stopSig
		app.log.Info().Str("signal", sig.String()).Msg("Received signal")
		cancel()
	}()

	go app.cache.Start()

	server := http.Server{
		Addr:         app.cfg.ServerAddress,
		Handler:      app.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log.Error().Err(err).Msg("Http server error")
			cancel()
		}
	}()

	app.log.Info().Str("addr", app.cfg.ServerAddress).Msg("Server started, listening for connections")
	<-ctx.Done()

	timeout, tcancel := context.WithTimeout(context.Background(), time.Second*10)
	defer tcancel()
	app.log.Info().Msg("Shutting down http server")
	err := server.Shutdown(timeout)
	if err != nil {
		app.log.Error().Err(err).Msg("Http server shutdown error")
	}

	app.cache.Stop()

	app.log.Info().Msg("Closing storage")
	err = app.store.Close()
	if err != nil {
		app.log.Error().Err(err).Msg("Storage closing error")
	}

	signal.Stop(app.stopSig)
	close(app.Done)
	app.log.Info().Msg("Exiting app")
}
