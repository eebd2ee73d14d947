package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/kasir/internal/flagx"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// envConfig mirrors Config for envdecode. It is seeded with the current
// values so that variables which are not set leave them untouched.
type envConfig struct {
	HTTPAddr              string        `env:"KASIR_HTTP_ADDR"`
	Port                  string        `env:"PORT"`
	StorageDriver         string        `env:"KASIR_STORAGE_DRIVER"`
	DatabaseDSN           string        `env:"KASIR_DATABASE_DSN"`
	SecretKey             string        `env:"KASIR_SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"KASIR_TOKEN_VALIDITY"`
	BcryptCost            int           `env:"KASIR_BCRYPT_COST"`
	CatalogSource         string        `env:"KASIR_CATALOG_SOURCE"`
	S3Region              string        `env:"KASIR_S3_REGION"`
	S3BaseEndpoint        string        `env:"KASIR_S3_BASE_ENDPOINT"`
	S3AccessKey           string        `env:"KASIR_S3_ACCESS_KEY"`
	S3SecretKey           string        `env:"KASIR_S3_SECRET_KEY"`
	LoginRateLimit        float64       `env:"KASIR_LOGIN_RATE_LIMIT"`
	LoginRateBurst        int           `env:"KASIR_LOGIN_RATE_BURST"`
	LogLevel              string        `env:"KASIR_LOG_LEVEL"`
}

// parseEnv overlays KASIR_* environment variables onto config.
//
// A dotenv file is loaded first: the path given with -env, or ./.env when it
// exists. Variables already present in the environment win over the file.
// PORT is honoured as ":<PORT>" unless KASIR_HTTP_ADDR is set.
//
// Invalid values panic, like the other loaders.
func parseEnv(config *Config) {
	loadDotenv(flagx.EnvFileFlag())

	e := &envConfig{
		HTTPAddr:              config.HTTPAddr,
		StorageDriver:         config.StorageDriver,
		DatabaseDSN:           config.DatabaseDSN,
		SecretKey:             config.SecretKey,
		TokenValidityDuration: config.TokenValidityDuration,
		BcryptCost:            config.BcryptCost,
		CatalogSource:         config.CatalogSource,
		S3Region:              config.S3Region,
		S3BaseEndpoint:        config.S3BaseEndpoint,
		S3AccessKey:           config.S3AccessKey,
		S3SecretKey:           config.S3SecretKey,
		LoginRateLimit:        config.LoginRateLimit,
		LoginRateBurst:        config.LoginRateBurst,
		LogLevel:              config.LogLevel,
	}

	if err := envdecode.Decode(e); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return
		}
		panic(err)
	}

	if e.Port != "" {
		if _, ok := os.LookupEnv("KASIR_HTTP_ADDR"); !ok {
			e.HTTPAddr = ":" + e.Port
		}
	}

	config.HTTPAddr = e.HTTPAddr
	config.StorageDriver = e.StorageDriver
	config.DatabaseDSN = e.DatabaseDSN
	config.SecretKey = e.SecretKey
	config.TokenValidityDuration = e.TokenValidityDuration
	config.BcryptCost = e.BcryptCost
	config.CatalogSource = e.CatalogSource
	config.S3Region = e.S3Region
	config.S3BaseEndpoint = e.S3BaseEndpoint
	config.S3AccessKey = e.S3AccessKey
	config.S3SecretKey = e.S3SecretKey
	config.LoginRateLimit = e.LoginRateLimit
	config.LoginRateBurst = e.LoginRateBurst
	config.LogLevel = e.LogLevel
}

func loadDotenv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}
