package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ClimaStore/internal/config"
	"ClimaStore/internal/quote"
	"ClimaStore/pkg/kit"
)

func main() {
	service := "quote"

	cfg, err := config.Load(service)
	if err != nil {
		kit.NewLogger(service, config.EnvProduction).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Server.Environment)
	defer func() { _ = log.Sync() }()

	store, closeStore, err := openStore(cfg.Quote)
	if err != nil {
		log.Fatal("init quote store failed", zap.Error(err))
	}
	defer closeStore()

	s := &quote.Server{
		Store:           store,
		Catalog:         quote.NewCatalogClient(cfg.Quote.CatalogURL),
		Log:             log,
		InstallationFee: float64(cfg.Quote.InstallationFee),
	}

	reg := prometheus.NewRegistry()
	h := quote.NewHandler(s, kit.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	}, kit.NewIPRateLimiter(cfg.RateLimit.QuotePerMin, time.Minute))

	if err := kit.RunHTTPServer(":"+cfg.Server.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(cfg config.QuoteConfig) (quote.Store, func(), error) {
	if cfg.Storage != config.StoragePostgres {
		return quote.NewMemStore(), func() {}, nil
	}

	db, err := quote.OpenPostgres(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}

	s := quote.NewPostgresStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, func() { _ = db.Close() }, nil
}
