package main

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ClimaStore/internal/calc"
	"ClimaStore/internal/catalog"
	"ClimaStore/internal/comparison"
	"ClimaStore/internal/config"
	"ClimaStore/internal/content"
	"ClimaStore/pkg/kit"
)

const migrateTimeout = 30 * time.Second

func main() {
	service := "catalog"

	cfg, err := config.Load(service)
	if err != nil {
		kit.NewLogger(service, config.EnvProduction).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Server.Environment)
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()

	store, closeStore, err := openCatalogStore(cfg.Catalog)
	if err != nil {
		log.Fatal("init catalog store failed", zap.Error(err))
	}
	defer closeStore()

	storage, storageCloser, err := openComparisonStorage(cfg.Comparison)
	if err != nil {
		log.Fatal("init comparison storage failed", zap.Error(err))
	}
	defer func() { _ = storageCloser.Close() }()

	lib, err := content.Load()
	if err != nil {
		log.Fatal("load content failed", zap.Error(err))
	}

	manager := comparison.NewManager(storage,
		comparison.WithLogger(log),
		comparison.WithMetrics(comparison.NewMetrics(reg)),
	)

	h := catalog.NewHandler(
		&catalog.Server{Store: store, Log: log, Checks: []catalog.ReadyCheck{manager.Ping}},
		kit.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       reg,
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsToken:   cfg.Metrics.Token,
		},
		&comparison.Server{Manager: manager, Products: store, Log: log},
		&calc.Server{Products: store, Log: log},
		&content.Server{Library: lib},
	)

	log.Info("storage configured",
		zap.String("catalog", cfg.Catalog.Storage),
		zap.String("comparison", cfg.Comparison.Storage),
	)

	if err := kit.RunHTTPServer(":"+cfg.Server.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openCatalogStore(cfg config.CatalogConfig) (catalog.Store, func(), error) {
	if cfg.Storage != config.StoragePostgres {
		s, err := catalog.NewMemStore()
		return s, func() {}, err
	}

	db, err := catalog.OpenPostgres(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}

	cats, products, err := catalog.LoadSeed()
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	s := catalog.NewPostgresStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := s.Migrate(ctx, cats, products); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, func() { _ = db.Close() }, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openComparisonStorage(cfg config.ComparisonConfig) (comparison.Storage, io.Closer, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		s, err := comparison.OpenSQLiteStorage(cfg.SQLiteDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case config.StoragePostgres:
		db, err := catalog.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		s := comparison.NewPostgresStorage(db)

		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		defer cancel()
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, db, nil

	default:
		return comparison.NewMemoryStorage(), nopCloser{}, nil
	}
}
