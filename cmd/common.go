package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ftahirops/validatord/checker"
	"github.com/ftahirops/validatord/collector"
	"github.com/ftahirops/validatord/config"
	"github.com/ftahirops/validatord/engine"
	"github.com/ftahirops/validatord/event"
	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/program"
)

// app bundles everything a run invokes once the config is loaded and the
// event store is open.
type app struct {
	cfg      config.File
	services []*model.Service
	bridge   *event.Bridge
	store    event.Store
	sched    *engine.Scheduler
	log      *slog.Logger
}

// buildApp loads config, opens the event store, and assembles the
// scheduler — the common setup shared by `run`, `validate` and `status`.
func buildApp(ctx context.Context, log *slog.Logger) (*app, error) {
	cfg, err := config.Load(globalConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	services, err := config.BuildServices(cfg.Services)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}

	store, err := openStore(ctx, cfg.EventStore)
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}

	bridge := event.New(store, log)
	sys := &collector.SysInfo{}
	runner := program.NewRunner()

	sched := engine.NewScheduler(services, sys, bridge, runner, log, nil)

	return &app{cfg: cfg, services: services, bridge: bridge, store: store, sched: sched, log: log}, nil
}

func openStore(ctx context.Context, spec config.EventStoreSpec) (event.Store, error) {
	switch spec.Driver {
	case "", "sqlite":
		path := spec.DSN
		if path == "" {
			path = "validatord-events.db"
		}
		return event.NewSQLiteStore(path)
	case "postgres":
		return event.NewPostgresStore(ctx, spec.DSN)
	case "memory":
		return event.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown event store driver %q", spec.Driver)
}

var _ checker.EventPoster = (*event.Bridge)(nil)
