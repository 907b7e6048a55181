package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pedro664/PLANTA-sub001/internal/logging"
	"github.com/pedro664/PLANTA-sub001/internal/server"
	"github.com/pedro664/PLANTA-sub001/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, "json", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
