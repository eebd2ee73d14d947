package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/kasir/internal/flagx"
	"github.com/dmitrijs2005/kasir/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration so
// both "24h" and integer nanoseconds are accepted. Only keys present in the
// file override the current values.
type JsonConfig struct {
	HTTPAddr              *string         `json:"http_addr"`
	StorageDriver         *string         `json:"storage_driver"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	BcryptCost            *int            `json:"bcrypt_cost"`
	CatalogSource         *string         `json:"catalog_source"`
	S3Region              *string         `json:"s3_region"`
	S3BaseEndpoint        *string         `json:"s3_base_endpoint"`
	S3AccessKey           *string         `json:"s3_access_key"`
	S3SecretKey           *string         `json:"s3_secret_key"`
	LoginRateLimit        *float64        `json:"login_rate_limit"`
	LoginRateBurst        *int            `json:"login_rate_burst"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson loads the JSON file named by -c/-config into config. Without the
// flag nothing is loaded. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setIf(&config.HTTPAddr, c.HTTPAddr)
	setIf(&config.StorageDriver, c.StorageDriver)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.CatalogSource, c.CatalogSource)
	setIf(&config.S3Region, c.S3Region)
	setIf(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setIf(&config.S3AccessKey, c.S3AccessKey)
	setIf(&config.S3SecretKey, c.S3SecretKey)
	setIf(&config.LoginRateLimit, c.LoginRateLimit)
	setIf(&config.LoginRateBurst, c.LoginRateBurst)
	setIf(&config.LogLevel, c.LogLevel)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
