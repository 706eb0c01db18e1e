package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/protodesk/internal/buildinfo"
	"github.com/dmitrijs2005/protodesk/internal/client/cli"
	"github.com/dmitrijs2005/protodesk/internal/client/config"
	"github.com/dmitrijs2005/protodesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Printf("%v, using info", err)
	}
	logger := logging.NewTextLogger(os.Stderr, level)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
