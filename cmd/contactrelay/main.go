// Command contactrelay is the Lambda entrypoint that emails contact form
// submissions.
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
	log := logger.Named("contactrelay")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	if err := cfg.ValidateContact(); err != nil {
		log.Fatal(ctx, "invalid configuration", logger.Error(err))
	}
	wire.Metrics(cfg, "contactrelay")

	sender, err := wire.Sender(ctx, cfg, log)
	if err != nil {
		log.Fatal(ctx, "mail backend unavailable", logger.Error(err))
	}

	relay := service.NewContactRelay(sender, cfg.FromEmail, cfg.ToEmail, service.WithLogger(log))
	awslambda.Start(lambda.NewContactHandler(relay, log).Handle)
}
