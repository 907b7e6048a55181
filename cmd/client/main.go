package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pedro664/PLANTA-sub001/internal/client/cli"
	"github.com/pedro664/PLANTA-sub001/internal/client/config"
	"github.com/pedro664/PLANTA-sub001/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, "text", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
