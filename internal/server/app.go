// Package server wires the reference Planta sync server: record storage
// (in-memory or Postgres), the gRPC endpoint and an optional metrics endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/pedro664/PLANTA-sub001/internal/logging"
	"github.com/pedro664/PLANTA-sub001/internal/metrics"
	"github.com/pedro664/PLANTA-sub001/internal/server/config"
	"github.com/pedro664/PLANTA-sub001/internal/server/records"

	gs "github.com/pedro664/PLANTA-sub001/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	grpc    *gs.GRPCServer
	metrics *http.Server
	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	var repo records.Repository
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, records are kept in memory")
		repo = records.NewMemoryRepository()
	} else {
		db, err := records.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.closers = append(app.closers, db.Close)
		repo = records.NewPostgresRepository(db)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sm := metrics.NewServerMetrics(reg)

	app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, records.NewService(repo, logger), sm)

	if c.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		app.metrics = &http.Server{Addr: c.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	return app, nil
}

// Run serves until ctx is cancelled or a server fails.
func (app *App) Run(ctx context.Context) error {
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.grpc.Run(gctx)
	})

	if app.metrics != nil {
		srv := app.metrics
		g.Go(func() error {
			app.logger.Info(gctx, "metrics endpoint listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 3*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func (app *App) Close() {
	for _, c := range app.closers {
		if err := c(); err != nil {
			app.logger.Error(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}
