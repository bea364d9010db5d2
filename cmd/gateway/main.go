package main

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ClimaStore/internal/config"
	"ClimaStore/internal/gateway"
	"ClimaStore/pkg/kit"
)

func main() {
	service := "gateway"

	cfg, err := config.Load(service)
	if err != nil {
		kit.NewLogger(service, config.EnvProduction).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Server.Environment)
	defer func() { _ = log.Sync() }()

	secret := cfg.Visitor.Secret
	if secret == "" {
		// Development only; production config requires a secret.
		secret = uuid.NewString() + uuid.NewString()
		log.Warn("visitor secret not set, using a random one; visitor cookies will not survive a restart")
	}

	deps := gateway.Deps{
		CatalogURL:    cfg.Gateway.CatalogURL,
		QuoteURL:      cfg.Gateway.QuoteURL,
		VisitorSecret: secret,
		VisitorTTL:    cfg.Visitor.TTL,
		SecureCookie:  cfg.Server.Environment == config.EnvProduction,
	}

	reg := prometheus.NewRegistry()
	h, err := gateway.NewHandler(deps, kit.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(":"+cfg.Server.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
