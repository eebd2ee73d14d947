package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/kasir/internal/buildinfo"
	"github.com/dmitrijs2005/kasir/internal/client/cli"
	"github.com/dmitrijs2005/kasir/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("init client: %v", err)
	}

	app.Run(context.Background())
}
