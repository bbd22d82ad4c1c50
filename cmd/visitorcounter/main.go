// Command visitorcounter is the Lambda entrypoint that increments and
// returns the site visitor count.
package main

import (
	"context"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/okian/sitefn/internal/adapters/lambda"
	service "github.com/okian/sitefn/internal/app"
	"github.com/okian/sitefn/internal/config"
	"github.com/okian/sitefn/internal/wire"
	"github.com/okian/sitefn/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("visitorcounter")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	if err := cfg.ValidateCounter(); err != nil {
		log.Fatal(ctx, "invalid configuration", logger.Error(err))
	}
	wire.Metrics(cfg, "visitorcounter")

	// The store client lives as long as the sandbox.
	store, _, err := wire.Counter(ctx, cfg)
	if err != nil {
		log.Fatal(ctx, "counter backend unavailable", logger.Error(err))
	}

	counter := service.NewVisitorCounter(store, service.WithLogger(log), service.WithCounterKey(cfg.CounterKey))
	awslambda.Start(lambda.NewCounterHandler(counter, cfg.AllowedOrigin, log).Handle)
}
