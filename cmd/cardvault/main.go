package main

import (
	"context"
	"log"
	"os"

	"github.com/saikai-app/cardvault/internal/buildinfo"
	"github.com/saikai-app/cardvault/internal/cli"
	"github.com/saikai-app/cardvault/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
