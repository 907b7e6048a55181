package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pedro664/PLANTA-sub001/internal/client/client"
	"github.com/pedro664/PLANTA-sub001/internal/client/config"
	"github.com/pedro664/PLANTA-sub001/internal/client/imagestore"
	"github.com/pedro664/PLANTA-sub001/internal/client/models"
	"github.com/pedro664/PLANTA-sub001/internal/client/reachability"
	"github.com/pedro664/PLANTA-sub001/internal/client/repositories/queue"
	"github.com/pedro664/PLANTA-sub001/internal/client/syncer"
	"github.com/pedro664/PLANTA-sub001/internal/logging"
	"github.com/pedro664/PLANTA-sub001/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// engine is the part of *syncer.Engine the REPL drives.
type engine interface {
	Enqueue(ctx context.Context, kind models.ActionKind, payload any, meta *models.ActionMetadata) (string, error)
	ForceSyncNow(ctx context.Context) (syncer.Result, error)
	Pending() []models.SyncAction
	PendingByKind(kind models.ActionKind) []models.SyncAction
	ClearAll(ctx context.Context) (int, error)
	Status() syncer.EngineStatus
}

type offlineSwitch interface {
	IsOnline() bool
	ForceOffline(ctx context.Context, forced bool)
}

type App struct {
	config *config.Config
	log    logging.Logger

	engine  engine
	network offlineSwitch

	reader      *bufio.Reader
	out         io.Writer
	interactive bool

	// userID is remembered from the last "user" command and used as the
	// default author for posts and likes.
	userID string

	runPoller func(ctx context.Context)
	metrics   *http.Server
	closers   []func() error
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.StoreBackend, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	app := &App{
		config: c,
		log:    log,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: stdinIsTerminal(),
	}
	app.closers = append(app.closers, repos.Close)

	opts := []client.Option{}
	if c.S3.Endpoint != "" {
		up, err := imagestore.NewS3Uploader(ctx, imagestore.Options{
			Endpoint:  c.S3.Endpoint,
			Region:    c.S3.Region,
			Bucket:    c.S3.Bucket,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			PublicURL: c.S3.PublicURL,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		opts = append(opts, client.WithImageUploader(up))
	}

	api, err := client.NewPlantaClient(c.ServerEndpointAddr, opts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.closers = append(app.closers, api.Close)

	poller := reachability.NewPoller(api, c.OnlineCheckInterval, log.With("module", "reachability"))
	app.network = poller
	app.runPoller = poller.Run

	eng, err := syncer.New(ctx, syncer.Options{
		Store:       queue.NewKVStore(repos.Metadata),
		Monitor:     poller,
		Handlers:    syncer.NewHandlers(api),
		Logger:      log,
		CallTimeout: c.CallTimeout,
	})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.engine = eng
	// engine first: it must finish in-flight passes before the store closes
	app.closers = append([]func() error{func() error { eng.Close(); return nil }}, app.closers...)

	eng.Subscribe(app.reportEvictions)

	if c.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		m := metrics.NewSyncMetrics(reg)
		eng.Subscribe(func(s syncer.State, r syncer.Result) {
			m.Observe(string(s), r.SuccessCount, r.ErrorCount, len(r.FailedActions), eng.PendingCount())
		})
		m.Pending.Set(float64(eng.PendingCount()))

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		app.metrics = &http.Server{Addr: c.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	return app, nil
}

// reportEvictions tells the user about offline changes that were discarded.
func (a *App) reportEvictions(_ syncer.State, r syncer.Result) {
	if len(r.FailedActions) == 0 {
		return
	}
	fmt.Fprintf(a.out, "\n%d offline change(s) could not be synced and were discarded:\n", len(r.FailedActions))
	for _, act := range r.FailedActions {
		fmt.Fprintf(a.out, "  %s %s (%s)\n", act.Kind, act.ID, act.Metadata.LastError)
	}
}

// prompt is empty when stdin is not a terminal.
func (a *App) prompt() string {
	if !a.interactive {
		return ""
	}
	return a.getStatus()
}

func (a *App) getStatus() string {
	mode := "offline"
	if a.network != nil && a.network.IsOnline() {
		mode = "online"
	}
	st := a.engine.Status()
	if st.InProgress {
		return fmt.Sprintf("(%s, syncing, %d pending)", mode, st.Pending)
	}
	return fmt.Sprintf("(%s, %d pending)", mode, st.Pending)
}

// Run starts the background poller and metrics endpoint and blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	if a.runPoller != nil {
		g.Go(func() error {
			a.runPoller(gctx)
			return nil
		})
	}

	if a.metrics != nil {
		srv := a.metrics
		g.Go(func() error {
			a.log.Info(gctx, "metrics endpoint listening", "addr", srv.Addr)
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

	// the REPL blocks on stdin, so it stays outside the group: a signal must
	// not wait for the next line of input
	go func() {
		defer cancel()
		fmt.Fprintln(a.out, "Welcome to Planta (type 'help' for commands)")
		runREPL(gctx, a, a.prompt, a.reader, a.out)
	}()

	<-gctx.Done()
	cancel()
	return g.Wait()
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}
