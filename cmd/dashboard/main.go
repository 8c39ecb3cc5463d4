package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/newtelco/dashboard/internal/apps"
	"github.com/newtelco/dashboard/internal/auth"
	"github.com/newtelco/dashboard/internal/boot"
	"github.com/newtelco/dashboard/internal/config"
	"github.com/newtelco/dashboard/internal/handlers"
	"github.com/newtelco/dashboard/internal/logger"
	"github.com/newtelco/dashboard/internal/people"
	"github.com/newtelco/dashboard/internal/server"
	"github.com/newtelco/dashboard/internal/sessions"
	"github.com/newtelco/dashboard/internal/version"
)

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideSessionStore(lc fx.Lifecycle, log *slog.Logger, rc *boot.RuntimeConfig) (*sessions.Store, error) {
	store, err := sessions.Open(context.Background(), log, rc.SessionsPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func provideJanitor(log *slog.Logger, store *sessions.Store, rc *boot.RuntimeConfig) (*sessions.Janitor, error) {
	return sessions.NewJanitor(log, store, rc.JanitorSchedule, rc.SessionsRetention)
}

func provideGoogleFlow(log *slog.Logger, cfg config.Config) *auth.GoogleFlow {
	if strings.TrimSpace(cfg.Google.ClientID) == "" {
		log.Warn("google client id not configured; sign-in will fail")
	}
	return auth.NewGoogleFlow(cfg.Google)
}

func providePeopleClient(log *slog.Logger, cfg config.Config) *people.Client {
	return people.NewClient(log, cfg.People)
}

func provideAppCatalog(log *slog.Logger, cfg config.Config) (*apps.Catalog, error) {
	catalog, err := apps.Load(cfg.Apps.CatalogPath)
	if err != nil {
		return nil, err
	}
	log.Info("app catalog loaded",
		slog.String("path", cfg.Apps.CatalogPath),
		slog.Int("apps", len(catalog.Apps)),
		slog.Int("categories", len(catalog.Categories())))
	return catalog, nil
}

func providePingHandler(log *slog.Logger, store *sessions.Store) *handlers.PingHandler {
	return handlers.NewPingHandler(log, store)
}

func provideAuthHandler(log *slog.Logger, flow *auth.GoogleFlow, store *sessions.Store, rc *boot.RuntimeConfig) *handlers.AuthHandler {
	return handlers.NewAuthHandler(log, flow, store, rc.JwtSecret, rc.JwtExpiresIn)
}

func provideDirectoryHandler(log *slog.Logger, flow *auth.GoogleFlow, store *sessions.Store, client *people.Client) *handlers.DirectoryHandler {
	return handlers.NewDirectoryHandler(log, flow, store, client)
}

func provideAppsHandler(log *slog.Logger, catalog *apps.Catalog, cfg config.Config) *handlers.AppsHandler {
	return handlers.NewAppsHandler(log, catalog, cfg.Apps.GridSize)
}

func main() {
	fx.New(appOptions()).Run()
}

func appOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			provideConfig,
			boot.ProvideRuntimeConfig,
			provideLogger,

			provideSessionStore,
			provideJanitor,
			provideGoogleFlow,
			providePeopleClient,
			provideAppCatalog,

			provideServerHandler(providePingHandler),
			provideServerHandler(provideAuthHandler),
			provideServerHandler(provideDirectoryHandler),
			provideServerHandler(provideAppsHandler),

			provideServer,
		),
		fx.Invoke(
			startJanitor,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	)
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	RuntimeConfig  *boot.RuntimeConfig
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.RuntimeConfig.ServerAddr, params.RuntimeConfig.JwtSecret, params.ServerHandlers...)
}

func startJanitor(lc fx.Lifecycle, log *slog.Logger, janitor *sessions.Janitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if n, err := janitor.Prune(ctx); err != nil {
				log.Warn("initial session prune failed", slog.Any("error", err))
			} else if n > 0 {
				log.Info("pruned stale sessions", slog.Int64("count", n))
			}
			janitor.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return janitor.Stop(ctx)
		},
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner, rc *boot.RuntimeConfig) {
	fmt.Printf("Starting Dashboard %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			logger.Info("server listening", slog.String("addr", rc.ServerAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
