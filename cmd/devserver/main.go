// Command devserver serves both handlers over plain HTTP for local
// development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/sitefn/internal/adapters/http/api"
	"github.com/okian/sitefn/internal/adapters/http/swagger"
	service "github.com/okian/sitefn/internal/app"
	"github.com/okian/sitefn/internal/config"
	"github.com/okian/sitefn/internal/wire"
	"github.com/okian/sitefn/pkg/logger"
	"github.com/okian/sitefn/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Stderr.WriteString("devserver: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Named("devserver")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	wire.Metrics(cfg, "devserver")

	mux, closeStore, err := newMux(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn(ctx, "closing counter store", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("mail_backend", cfg.MailBackend),
			logger.String("counter_backend", cfg.CounterBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newMux builds both services from cfg and registers every route.
func newMux(ctx context.Context, cfg *config.Config, log logger.Logger) (*http.ServeMux, wire.Closer, error) {
	sender, err := wire.Sender(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := wire.Counter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	relay := service.NewContactRelay(sender, cfg.FromEmail, cfg.ToEmail, service.WithLogger(log))
	counter := service.NewVisitorCounter(store, service.WithLogger(log), service.WithCounterKey(cfg.CounterKey))

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(relay, counter, cfg.AllowedOrigin, log.Named("http")).Register(ctx, mux)
	return mux, closeStore, nil
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
