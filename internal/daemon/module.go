package daemon

import (
	"context"

	"github.com/loom-social/loom/internal/api"
	"github.com/loom-social/loom/internal/bus"
	"github.com/loom-social/loom/internal/config"
	"github.com/loom-social/loom/internal/lock"
	"github.com/loom-social/loom/internal/logging"
	"github.com/loom-social/loom/internal/netwatch"
	"github.com/loom-social/loom/internal/platform"
	"github.com/loom-social/loom/internal/profile"
	"github.com/loom-social/loom/internal/resolver"
	"github.com/loom-social/loom/internal/status"
	"github.com/loom-social/loom/internal/store"
	"github.com/loom-social/loom/internal/wardrobe"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
	SocketPath  string // optional override for testing; empty = use default
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideConfig,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			providePlatformClient,
			provideWatcher,
			provideEngine,
			provideResolver,
			provideStatusHandler,
			provideItemHandler,
			provideParticipantHandler,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideConfig() (*config.Config, error) {
	return config.Load(profile.ConfigPath())
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.DBPath(p.ProfileName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func providePlatformClient(cfg *config.Config) *platform.Client {
	return platform.NewClient(cfg.APIBaseURL, cfg.AuthToken)
}

func provideWatcher(client *platform.Client, b *bus.Bus, logger *zap.Logger) *netwatch.Watcher {
	return netwatch.New(client, b, logger, netwatch.DefaultInterval)
}

func provideEngine(db *store.DB, client *platform.Client, watcher *netwatch.Watcher, b *bus.Bus, machine *status.Machine, logger *zap.Logger) *wardrobe.Engine {
	return wardrobe.NewEngine(db, client, watcher, b, machine, logger)
}

func provideResolver(client *platform.Client, logger *zap.Logger) *resolver.Resolver {
	return resolver.New(client, client, logger)
}

func provideStatusHandler(p Params, machine *status.Machine, watcher *netwatch.Watcher, engine *wardrobe.Engine, db *store.DB, logger *zap.Logger) *api.StatusHandler {
	return api.NewStatusHandler(machine, watcher, engine, db, p.ProfileName, logger)
}

func provideItemHandler(engine *wardrobe.Engine, logger *zap.Logger) *api.ItemHandler {
	return api.NewItemHandler(engine, logger)
}

func provideParticipantHandler(res *resolver.Resolver, logger *zap.Logger) *api.ParticipantHandler {
	return api.NewParticipantHandler(res, logger)
}

func registerLifecycle(lc fx.Lifecycle, srv *Server, lk *lock.Lock, watcher *netwatch.Watcher, engine *wardrobe.Engine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Start the engine first so it sees the watcher's initial
			// connectivity event.
			engine.Start(context.Background())
			watcher.Start(context.Background())

			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("control server error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.Stop(ctx)
			watcher.Stop()
			engine.Stop()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
