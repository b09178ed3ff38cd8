package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/petfit-backend/internal/clients/redis"
	"github.com/yungbote/petfit-backend/internal/data/db"
	httpserver "github.com/yungbote/petfit-backend/internal/http"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/cache"
	"github.com/yungbote/petfit-backend/internal/observability"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *httpserver.Server

	shutdownOTel func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Otel.Environment,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		Headers:     cfg.Otel.Headers,
		SampleRatio: cfg.Otel.SampleRatio,
	})

	theDB, err := openDatabase(log, cfg.Database)
	if err != nil {
		log.Sync()
		return nil, err
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	var store cache.Store
	if clients.Redis != nil {
		store = redis.NewStore(log, clients.Redis)
	} else {
		store = cache.NewMemoryStore()
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(log, cfg, reposet, store, clients)
	handlerset := wireHandlers(log, serviceset, theDB, clients)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       wireServer(log, cfg, handlerset),
		shutdownOTel: shutdownOTel,
	}, nil
}

func openDatabase(log *logger.Logger, cfg DatabaseConfig) (*gorm.DB, error) {
	var theDB *gorm.DB
	switch cfg.Driver {
	case "sqlite":
		d, err := db.OpenSQLite(log, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		theDB = d
	default:
		pg, err := db.NewPostgresService(log, db.PostgresConfig{
			Host:            cfg.Host,
			Port:            cfg.Port,
			User:            cfg.User,
			Password:        cfg.Password,
			Name:            cfg.Name,
			SSLMode:         cfg.SSLMode,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		theDB = pg.DB()
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(theDB); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return theDB, nil
}

// Start launches background consumers. It is a no-op when already started.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.InvalidationBus != nil {
		recs := a.Services.Recommendation
		err := a.Clients.InvalidationBus.StartForwarder(ctx, func(ev redis.InvalidationEvent) {
			recs.HandleInvalidation(ctx, ev)
		})
		if err != nil {
			a.Log.Error("invalidation forwarder failed to start", "error", err)
		}
	}
}

// Invalidate drops the entries through the local cache and, when Redis is on, also publishes the event
// so other instances drop theirs.
func (a *App) Invalidate(ctx context.Context, scope string, id uuid.UUID) (int64, error) {
	ev := redis.InvalidationEvent{Scope: scope, ID: id}
	if err := ev.Validate(); err != nil {
		return 0, err
	}
	var n int64
	switch scope {
	case redis.ScopePet:
		n = a.Services.Recommendation.InvalidatePet(ctx, id)
	case redis.ScopeProduct:
		n = a.Services.Recommendation.InvalidateProduct(ctx, id)
	case redis.ScopeAll:
		n = a.Services.Recommendation.InvalidateAll(ctx)
	}
	if a.Clients.InvalidationBus != nil {
		if err := a.Clients.InvalidationBus.Publish(ctx, ev); err != nil {
			return n, fmt.Errorf("publish invalidation: %w", err)
		}
	}
	return n, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.Server.Addr)
	return a.Server.Run()
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown failed", "error", err)
		}
	}
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Clients.Close()
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
