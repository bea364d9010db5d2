// Package config loads service configuration from an optional config.yaml
// and CLIMA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	minVisitorSecret = 32
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Comparison ComparisonConfig `mapstructure:"comparison"`
	Quote      QuoteConfig      `mapstructure:"quote"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Visitor    VisitorConfig    `mapstructure:"visitor"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

type CatalogConfig struct {
	Storage     string `mapstructure:"storage"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type ComparisonConfig struct {
	Storage     string `mapstructure:"storage"`
	SQLiteDir   string `mapstructure:"sqlite_dir"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type QuoteConfig struct {
	Storage         string `mapstructure:"storage"`
	PostgresDSN     string `mapstructure:"postgres_dsn"`
	CatalogURL      string `mapstructure:"catalog_url"`
	InstallationFee int64  `mapstructure:"installation_fee"`
}

type GatewayConfig struct {
	CatalogURL string `mapstructure:"catalog_url"`
	QuoteURL   string `mapstructure:"quote_url"`
}

type VisitorConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

type RateLimitConfig struct {
	QuotePerMin int `mapstructure:"quote_per_min"`
}

var defaultPorts = map[string]string{
	"gateway": "8080",
	"catalog": "8082",
	"quote":   "8083",
}

// Load reads configuration for the named service.
func Load(service string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/climastore/")

	v.SetEnvPrefix("CLIMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, service)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(service, &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	port, ok := defaultPorts[service]
	if !ok {
		port = "8080"
	}
	v.SetDefault("server.port", port)
	v.SetDefault("server.environment", EnvDevelopment)

	v.SetDefault("catalog.storage", StorageMemory)
	v.SetDefault("catalog.postgres_dsn", "")

	v.SetDefault("comparison.storage", StorageMemory)
	v.SetDefault("comparison.sqlite_dir", "./data")
	v.SetDefault("comparison.postgres_dsn", "")

	v.SetDefault("quote.storage", StorageMemory)
	v.SetDefault("quote.postgres_dsn", "")
	v.SetDefault("quote.catalog_url", "http://localhost:8082")
	v.SetDefault("quote.installation_fee", 9000)

	v.SetDefault("gateway.catalog_url", "http://localhost:8082")
	v.SetDefault("gateway.quote_url", "http://localhost:8083")

	v.SetDefault("visitor.secret", "")
	v.SetDefault("visitor.ttl", "8760h")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.token", "")

	v.SetDefault("ratelimit.quote_per_min", 5)
}

func validate(service string, cfg *Config) error {
	switch cfg.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("server environment must be %q or %q, got: %s", EnvDevelopment, EnvProduction, cfg.Server.Environment)
	}

	switch service {
	case "catalog":
		if err := validateStorage("catalog", cfg.Catalog.Storage, cfg.Catalog.PostgresDSN, StorageMemory, StoragePostgres); err != nil {
			return err
		}
		if err := validateStorage("comparison", cfg.Comparison.Storage, cfg.Comparison.PostgresDSN, StorageMemory, StorageSQLite, StoragePostgres); err != nil {
			return err
		}
		if cfg.Comparison.Storage == StorageSQLite && cfg.Comparison.SQLiteDir == "" {
			return errors.New("comparison sqlite_dir is required when storage is 'sqlite'")
		}
	case "quote":
		if err := validateStorage("quote", cfg.Quote.Storage, cfg.Quote.PostgresDSN, StorageMemory, StoragePostgres); err != nil {
			return err
		}
		if cfg.Quote.CatalogURL == "" {
			return errors.New("quote catalog_url is required")
		}
		if cfg.Quote.InstallationFee < 0 {
			return errors.New("quote installation_fee must not be negative")
		}
		if cfg.RateLimit.QuotePerMin < 1 {
			return errors.New("ratelimit quote_per_min must be positive")
		}
	case "gateway":
		if cfg.Gateway.CatalogURL == "" || cfg.Gateway.QuoteURL == "" {
			return errors.New("gateway catalog_url and quote_url are required")
		}
		if cfg.Server.Environment == EnvProduction && len(cfg.Visitor.Secret) < minVisitorSecret {
			return fmt.Errorf("visitor secret must be at least %d chars in production (set CLIMA_VISITOR_SECRET)", minVisitorSecret)
		}
		if cfg.Visitor.TTL <= 0 {
			return errors.New("visitor ttl must be positive")
		}
	}

	return nil
}

func validateStorage(section, storage, dsn string, allowed ...string) error {
	ok := false
	for _, a := range allowed {
		if storage == a {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%s storage must be one of %v, got: %s", section, allowed, storage)
	}
	if storage == StoragePostgres && dsn == "" {
		return fmt.Errorf("%s postgres_dsn is required when storage is 'postgres'", section)
	}
	return nil
}
