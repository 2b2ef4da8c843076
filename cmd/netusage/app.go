package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/netusage/internal/clock"
	"github.com/kailas-cloud/netusage/internal/config"
	"github.com/kailas-cloud/netusage/internal/db"
	dbRedis "github.com/kailas-cloud/netusage/internal/db/redis"
	dbValkey "github.com/kailas-cloud/netusage/internal/db/valkey"
	logpkg "github.com/kailas-cloud/netusage/internal/logger"
	"github.com/kailas-cloud/netusage/internal/platform/host"
	grantrepo "github.com/kailas-cloud/netusage/internal/repository/grant"
	ledgerrepo "github.com/kailas-cloud/netusage/internal/repository/ledger"
	accountantuc "github.com/kailas-cloud/netusage/internal/usecase/accountant"
	counteruc "github.com/kailas-cloud/netusage/internal/usecase/counter"
	healthuc "github.com/kailas-cloud/netusage/internal/usecase/health"
	permissionuc "github.com/kailas-cloud/netusage/internal/usecase/permission"
	queryuc "github.com/kailas-cloud/netusage/internal/usecase/query"
)

// app is the composition root shared by all subcommands.
type app struct {
	cfg      config.Config
	env      string
	logger   *zap.Logger
	store    db.Store
	grants   *grantrepo.Store
	recorder *ledgerrepo.Recorder // nil when the ledger is disabled
	query    *queryuc.Service
	health   *healthuc.Service
}

// loadConfig resolves the config from --config or ENV.
func loadConfig() (config.Config, string, error) {
	env := config.GetEnv()
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, "", fmt.Errorf("load config: %w", err)
	}
	return cfg, env, nil
}

// newApp loads config, connects to the store and wires every service.
func newApp(ctx context.Context) (*app, error) {
	cfg, env, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := openStore(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}

	mode, err := queryuc.ParseStatsMode(cfg.Channel.StatsMode)
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &app{cfg: cfg, env: env, logger: logger, store: store}
	a.wire(mode)
	return a, nil
}

func (a *app) wire(mode queryuc.StatsMode) {
	cfg := a.cfg

	counters := host.NewCounters(cfg.Counters.MobileInterfaces)
	identifier := host.NewIdentifier(cfg.Window.SubscriberID)
	capability := host.NewCapability(cfg.Window.Enabled)

	// Pass a nil interface (not a typed nil pointer) when the ledger is off.
	var window counteruc.WindowProvider
	if cfg.Window.Enabled {
		ledger := ledgerrepo.New(a.store, cfg.Storage.KeyPrefix, time.Duration(cfg.Window.BucketTTLHours)*time.Hour)
		window = ledger
		a.recorder = ledgerrepo.NewRecorder(ledger, counters, identifier, clock.NewMonotonic(), a.logger)
	} else if mode == queryuc.StatsModeWindowed {
		a.logger.Warn("windowed stats mode without usage ledger; getNetworkStats will report UNSUPPORTED_API")
	}

	source := counteruc.New(counters, window, identifier, capability, a.logger).
		WithReadTimeout(time.Duration(cfg.Counters.ReadTimeoutMs) * time.Millisecond)

	a.grants = grantrepo.New(a.store, cfg.Storage.KeyPrefix)
	gate := permissionuc.New(a.grants, host.NewLauncher(cfg.Permission.LaunchCommand, a.logger), a.logger)

	a.query = queryuc.New(accountantuc.New(source), gate, mode, a.logger)
	a.health = healthuc.New(a.store, counters)
}

func (a *app) Close() {
	a.store.Close()
	_ = a.logger.Sync()
}

func openStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case "valkey":
		return dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case "redis":
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
