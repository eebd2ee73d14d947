// Package config handles configuration for the server component: defaults,
// a dotenv/environment overlay, a JSON file overlay and command-line flags,
// applied in that order.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the kasir server.
//
// Fields:
//   - HTTPAddr: bind address of the HTTP API.
//   - StorageDriver / DatabaseDSN: "sqlite" or "postgres" and its DSN.
//   - SecretKey: HMAC secret for signing tokens (HS256). Do not use the default in prod.
//   - TokenValidityDuration: lifetime of issued tokens.
//   - BcryptCost: work factor for password hashes.
//   - CatalogSource: "builtin", a products file path or "s3://bucket/key".
//   - S3Region / S3BaseEndpoint / S3AccessKey / S3SecretKey: object storage access for CatalogSource.
//   - LoginRateLimit / LoginRateBurst: per-client limit on the auth endpoints; 0 disables it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	HTTPAddr              string
	StorageDriver         string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	BcryptCost            int
	CatalogSource         string
	S3Region              string
	S3BaseEndpoint        string
	S3AccessKey           string
	S3SecretKey           string
	LoginRateLimit        float64
	LoginRateBurst        int
	LogLevel              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.StorageDriver = "sqlite"
	c.DatabaseDSN = "file:kasir.db"
	c.SecretKey = "kasir-dev-secret"
	c.TokenValidityDuration = 24 * time.Hour
	c.BcryptCost = 10
	c.CatalogSource = "builtin"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3AccessKey = ""
	c.S3SecretKey = ""
	c.LoginRateLimit = 5
	c.LoginRateBurst = 10
	c.LogLevel = "info"
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http address is empty"))
	}
	if c.StorageDriver != "sqlite" && c.StorageDriver != "postgres" {
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is empty"))
	}
	if c.TokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("token validity must be positive, got %s", c.TokenValidityDuration))
	}
	if c.LoginRateLimit < 0 || c.LoginRateBurst < 0 {
		errs = append(errs, errors.New("login rate limit and burst must not be negative"))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (and an optional .env file), then from an optional
// JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
