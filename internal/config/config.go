// Package config loads rigsmith settings from YAML with RIGSMITH_* overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"rigsmith/internal/blob"
	"rigsmith/internal/infra/persistence"
	"rigsmith/internal/logging"
)

// Catalogue sources.
const (
	SourceBlob  = "blob"
	SourceStore = "store"
)

// Metrics drivers.
const (
	MetricsNone       = "none"
	MetricsExpvar     = "expvar"
	MetricsPrometheus = "prometheus"
)

// DefaultMinBudget is the smallest budget the autobuild command accepts.
const DefaultMinBudget int64 = 5_000_000

// Config is the full process configuration.
type Config struct {
	Catalog   CatalogConfig      `yaml:"catalog"`
	Blob      blob.Config        `yaml:"blob"`
	Store     persistence.Config `yaml:"store"`
	Log       logging.Config     `yaml:"log"`
	Metrics   MetricsConfig      `yaml:"metrics"`
	AutoBuild AutoBuildConfig    `yaml:"autobuild"`
	Pricing   PricingConfig      `yaml:"pricing"`
}

// CatalogConfig selects where the catalogue snapshot comes from.
type CatalogConfig struct {
	Source string `yaml:"source"`
	Prefix string `yaml:"prefix"`
}

// MetricsConfig selects the operation metrics sink.
type MetricsConfig struct {
	Driver    string `yaml:"driver"`
	Namespace string `yaml:"namespace"`
	// Textfile receives the Prometheus text exposition after each command.
	Textfile string `yaml:"textfile"`
}

// AutoBuildConfig bounds auto-build input.
type AutoBuildConfig struct {
	MinBudget int64 `yaml:"min_budget"`
}

// PricingConfig configures the optional price check.
type PricingConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	SheetKey string        `yaml:"sheet_key"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{Source: SourceBlob},
		Blob:    blob.Config{Driver: blob.DriverFilesystem, FSRoot: "./datasets"},
		Store:   persistence.Config{Driver: persistence.DriverSQLite, SQLitePath: "rigsmith.db"},
		Log:     logging.Default(),
		Metrics: MetricsConfig{Driver: MetricsNone, Namespace: "rigsmith"},
		AutoBuild: AutoBuildConfig{
			MinBudget: DefaultMinBudget,
		},
		Pricing: PricingConfig{Timeout: 5 * time.Second, SheetKey: "prices.json"},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// An empty or missing path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str("RIGSMITH_CATALOG_SOURCE", &c.Catalog.Source)
	str("RIGSMITH_CATALOG_PREFIX", &c.Catalog.Prefix)
	if v, ok := lookup("RIGSMITH_BLOB_DRIVER"); ok {
		c.Blob.Driver = blob.Driver(v)
	}
	str("RIGSMITH_BLOB_FS_ROOT", &c.Blob.FSRoot)
	str("RIGSMITH_BLOB_S3_BUCKET", &c.Blob.S3.Bucket)
	str("RIGSMITH_BLOB_S3_REGION", &c.Blob.S3.Region)
	str("RIGSMITH_BLOB_S3_ENDPOINT", &c.Blob.S3.Endpoint)
	if v, ok := lookup("RIGSMITH_BLOB_S3_PATH_STYLE"); ok {
		c.Blob.S3.PathStyle = strings.EqualFold(v, "true")
	}
	str("RIGSMITH_BLOB_S3_ACCESS_KEY_ID", &c.Blob.S3.AccessKeyID)
	str("RIGSMITH_BLOB_S3_SECRET_ACCESS_KEY", &c.Blob.S3.SecretAccessKey)
	if v, ok := lookup("RIGSMITH_STORE_DRIVER"); ok {
		c.Store.Driver = persistence.Driver(v)
	}
	str("RIGSMITH_SQLITE_PATH", &c.Store.SQLitePath)
	str("RIGSMITH_POSTGRES_DSN", &c.Store.PostgresDSN)
	str("RIGSMITH_LOG_LEVEL", &c.Log.Level)
	str("RIGSMITH_LOG_FORMAT", &c.Log.Format)
	str("RIGSMITH_METRICS_DRIVER", &c.Metrics.Driver)
	str("RIGSMITH_METRICS_TEXTFILE", &c.Metrics.Textfile)
	if v, ok := lookup("RIGSMITH_AUTOBUILD_MIN_BUDGET"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("RIGSMITH_AUTOBUILD_MIN_BUDGET: %w", err)
		}
		c.AutoBuild.MinBudget = n
	}
	if v, ok := lookup("RIGSMITH_PRICING_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RIGSMITH_PRICING_TIMEOUT: %w", err)
		}
		c.Pricing.Timeout = d
	}
	str("RIGSMITH_PRICING_SHEET_KEY", &c.Pricing.SheetKey)
	return nil
}

// Validate rejects unknown driver names and negative bounds.
func (c Config) Validate() error {
	var errs []error
	switch c.Catalog.Source {
	case SourceBlob, SourceStore:
	default:
		errs = append(errs, fmt.Errorf("catalog.source %q must be %s or %s", c.Catalog.Source, SourceBlob, SourceStore))
	}
	switch c.Blob.Driver {
	case "", blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("blob.s3.bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob.driver %q", c.Blob.Driver))
	}
	switch persistence.Driver(strings.ToLower(string(c.Store.Driver))) {
	case "", persistence.DriverMemory, persistence.DriverSQLite, persistence.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	switch c.Metrics.Driver {
	case "", MetricsNone, MetricsExpvar, MetricsPrometheus:
	default:
		errs = append(errs, fmt.Errorf("unknown metrics.driver %q", c.Metrics.Driver))
	}
	if c.AutoBuild.MinBudget < 0 {
		errs = append(errs, errors.New("autobuild.min_budget must not be negative"))
	}
	if c.Pricing.Timeout < 0 {
		errs = append(errs, errors.New("pricing.timeout must not be negative"))
	}
	return errors.Join(errs...)
}
