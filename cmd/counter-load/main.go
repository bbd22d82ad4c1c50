// Command counter-load hammers a running visitor counter and verifies that
// every successful request was counted exactly once.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	vh "github.com/tckz/vegetahelper"
	vegeta "github.com/tsenart/vegeta/v12/lib"

	"github.com/okian/sitefn/internal/loadcheck"
	"github.com/okian/sitefn/pkg/logger"
)

// Default flag values.
const (
	defaultURL      = "http://localhost:9080/count"
	defaultRate     = 50
	defaultDuration = 10 * time.Second
	defaultTimeout  = 5 * time.Second
)

func main() {
	_ = godotenv.Load()

	optRate := &vh.RateFlag{Rate: &vegeta.Rate{Freq: defaultRate, Per: time.Second}}
	var (
		optURL      = flag.String("url", defaultURL, "Counter endpoint")
		optDuration = flag.Duration("duration", defaultDuration, "Duration of the attack")
		optWorkers  = flag.Uint64("workers", vegeta.DefaultWorkers, "Number of workers")
		optTimeout  = flag.Duration("timeout", defaultTimeout, "Per-request timeout")
		optLogLevel = flag.String("log-level", "info", "debug|info|warn|error")
	)
	flag.Var(optRate, "rate", "Number of requests per time unit, e.g. 50/1s")
	flag.Parse()

	if err := logger.Init(logger.WithJSON()); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("counter-load")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := logger.SetLevelString(*optLogLevel); err != nil {
		log.Warn(ctx, "invalid log-level; falling back to info", logger.String("log_level", *optLogLevel))
		_ = logger.SetLevelString("info")
	}

	rep, err := loadcheck.Run(ctx, loadcheck.Config{
		URL:      *optURL,
		Rate:     *optRate.Rate,
		Duration: *optDuration,
		Workers:  *optWorkers,
		Client:   &http.Client{Timeout: *optTimeout},
	})
	fields := []logger.Field{
		logger.String("summary", fmt.Sprintf("%s ok, %s failed, counter %s -> %s",
			humanize.Comma(rep.Successes), humanize.Comma(rep.Failures),
			humanize.Comma(rep.Baseline), humanize.Comma(rep.Final))),
		logger.Int64("baseline", rep.Baseline),
		logger.Int64("final", rep.Final),
		logger.Int64("expected", rep.Expected()),
		logger.Int64("successes", rep.Successes),
		logger.Int64("failures", rep.Failures),
		logger.Duration("p50", rep.Metrics.Latencies.P50),
		logger.Duration("p99", rep.Metrics.Latencies.P99),
	}
	if err != nil {
		log.Error(ctx, "load check failed", append(fields, logger.Error(err))...)
		os.Exit(1)
	}
	log.Info(ctx, "load check passed", fields...)
}
