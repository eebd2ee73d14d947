package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/kasir/internal/buildinfo"
	"github.com/dmitrijs2005/kasir/internal/server"
	"github.com/dmitrijs2005/kasir/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
