package cmd

import (
	"context"
	"fmt"
	"time"

	"opsboard/core/config"
	"opsboard/core/database"
	"opsboard/core/lists"
	"opsboard/core/liststore"
	"opsboard/core/logger"
	"opsboard/core/projection"
	"opsboard/core/schema"
	"opsboard/core/server"
	"opsboard/core/storage"
	"opsboard/feature/checklist"
	"opsboard/feature/departures"
	"opsboard/feature/departures/assist"
	"opsboard/feature/history"

	"go.uber.org/zap"
)

// app is the wired dashboard shared by the server and the one-shot commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    liststore.Store
	sql      *liststore.SQLStore
	resolver *schema.Resolver
	codec    projection.Codec
	loc      *time.Location

	checklist  *checklist.Service
	history    *history.Service
	departures *departures.Service
}

// newApp loads the configuration and builds every service. The schema is not
// resolved here; callers warm it when they need it up front.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logg.With(zap.String("backend", cfg.Server.Backend))}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	overrides, err := schema.ParseOverrides(cfg.Lists.Overrides)
	if err != nil {
		return nil, fmt.Errorf("invalid list overrides: %w", err)
	}
	a.resolver = schema.NewResolver(a.store, schema.Options{
		Lists:     cfg.Lists,
		Overrides: overrides,
		Logger:    a.logger,
	})

	// Validate already checked the timezone.
	a.loc, _ = cfg.Checklist.Location()
	a.codec = projection.Codec{Location: a.loc}

	exporter, err := a.openExporter(ctx)
	if err != nil {
		return nil, err
	}
	assistant, err := a.openAssist(ctx)
	if err != nil {
		return nil, err
	}

	a.checklist = checklist.NewService(a.store, a.resolver, a.codec, cfg.Checklist, a.logger.Named("checklist"))
	a.history = history.NewService(a.store, a.resolver, a.codec, a.checklist, exporter, a.logger.Named("history"))
	a.departures = departures.NewService(a.store, a.resolver, a.codec, cfg.Departures, assistant, a.logger.Named("departures"))
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Server.Backend {
	case server.BackendGraph:
		g, err := liststore.NewGraph(a.cfg.ListStore)
		if err != nil {
			return fmt.Errorf("failed to create list store client: %w", err)
		}
		a.store = g
	default:
		db, err := database.Connect(a.cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		a.sql = liststore.NewSQLStore(db, a.cfg.ListStore.Container)
		if err := a.sql.Migrate(ctx); err != nil {
			return err
		}
		a.store = a.sql
	}
	return nil
}

// openExporter returns nil when exports are disabled.
func (a *app) openExporter(ctx context.Context) (*history.Exporter, error) {
	if !a.cfg.Storage.Enabled {
		return nil, nil
	}
	client, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, a.cfg.Storage.Bucket, a.cfg.Storage.Region); err != nil {
		return nil, err
	}
	a.logger.Info("History exports enabled", zap.String("bucket", a.cfg.Storage.Bucket))
	return history.NewExporter(client, a.cfg.Storage.Bucket), nil
}

// openAssist returns nil when the language model is disabled.
func (a *app) openAssist(ctx context.Context) (*assist.Parser, error) {
	if !a.cfg.Assist.Enabled {
		return nil, nil
	}
	gen, err := assist.NewGemini(ctx, a.cfg.Assist)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Assisted parsing enabled", zap.String("model", a.cfg.Assist.Model))
	timeout := time.Duration(a.cfg.Assist.TimeoutSeconds) * time.Second
	return assist.NewParser(gen, timeout, a.logger.Named("assist")), nil
}

// warm resolves every list schema. A failure is logged, not fatal: reads
// degrade until the list becomes reachable.
func (a *app) warm(ctx context.Context) {
	if err := a.resolver.Warm(ctx, lists.All...); err != nil {
		a.logger.Warn("Schema warm-up incomplete", zap.Error(err))
	}
}

func (a *app) close() {
	_ = a.logger.Sync()
}
