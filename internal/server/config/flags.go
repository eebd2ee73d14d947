package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/kasir/internal/flagx"
)

var serverFlags = []string{
	"-a", "-k", "-d", "-s", "-t", "-b", "-p", "-g", "-e", "-u", "-w", "-r", "-burst", "-l",
}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-k string   storage driver: sqlite or postgres
//	-d string   database DSN
//	-s string   token HMAC secret key
//	-t int      token validity, minutes
//	-b int      bcrypt cost
//	-p string   products source: builtin, file path or s3://bucket/key
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-u string   S3 access key
//	-w string   S3 secret key
//	-r float    auth requests per second per client (0 disables)
//	-burst int  auth request burst per client
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c, -env) are ignored.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "k", config.StorageDriver, "storage driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")

	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.CatalogSource, "p", config.CatalogSource, "products source")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "w", config.S3SecretKey, "S3 secret key")
	fs.Float64Var(&config.LoginRateLimit, "r", config.LoginRateLimit, "auth requests per second per client")
	fs.IntVar(&config.LoginRateBurst, "burst", config.LoginRateBurst, "auth request burst per client")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t is applied only when given so a finer JSON/env value survives
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
}
