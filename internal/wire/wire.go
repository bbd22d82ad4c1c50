// Package wire builds the configured mail sender and counter store.
// Clients are created once per process and shared across invocations.
package wire

import (
	"context"
	"fmt"

	"cloud.google.com/go/datastore"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okian/sitefn/internal/adapters/mail"
	"github.com/okian/sitefn/internal/adapters/repository"
	"github.com/okian/sitefn/internal/config"
	"github.com/okian/sitefn/pkg/logger"
	"github.com/okian/sitefn/pkg/metrics"
)

// Closer releases a backend client.
type Closer func(ctx context.Context) error

func noClose(context.Context) error { return nil }

func loadAWS(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("%w: aws config: %w", ErrConnect, err)
	}
	return awsCfg, nil
}

// Sender returns the mail backend named by cfg.MailBackend.
func Sender(ctx context.Context, cfg *config.Config, l logger.Logger) (mail.Sender, error) {
	switch cfg.MailBackend {
	case config.MailSES:
		awsCfg, err := loadAWS(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return mail.Instrument(mail.NewSESSender(sesv2.NewFromConfig(awsCfg)), mail.BackendSES), nil
	case config.MailLog:
		return mail.Instrument(mail.NewLogSender(l.Named("mail")), mail.BackendLog), nil
	default:
		return nil, fmt.Errorf("%w: %q", mail.ErrUnknownBackend, cfg.MailBackend)
	}
}

// Counter returns the store named by cfg.CounterBackend and a Closer for
// its client.
func Counter(ctx context.Context, cfg *config.Config) (repository.Counter, Closer, error) {
	switch cfg.CounterBackend {
	case config.CounterDynamoDB:
		awsCfg, err := loadAWS(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		})
		store := repository.NewDynamoStore(client, cfg.CounterTable)
		return repository.Instrument(store, repository.BackendDynamoDB), noClose, nil

	case config.CounterRedis:
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.RedisAddr},
			Password: cfg.RedisPassword,
		})
		closer := func(context.Context) error { return client.Close() }
		return repository.Instrument(repository.NewRedisStore(client), repository.BackendRedis), closer, nil

	case config.CounterMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: mongo: %w", ErrConnect, err)
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.CounterTable)
		return repository.Instrument(repository.NewMongoStore(coll), repository.BackendMongo), client.Disconnect, nil

	case config.CounterDatastore:
		client, err := datastore.NewClient(ctx, cfg.GCPProject)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: datastore: %w", ErrConnect, err)
		}
		closer := func(context.Context) error { return client.Close() }
		store := repository.NewDatastoreStore(client, cfg.CounterTable)
		return repository.Instrument(store, repository.BackendDatastore), closer, nil

	case config.CounterMemory:
		return repository.Instrument(repository.NewMemoryStore(), repository.BackendMemory), noClose, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", repository.ErrUnknownBackend, cfg.CounterBackend)
	}
}

// Metrics rebuilds the global metrics manager from cfg, labelling every
// metric with function.
func Metrics(cfg *config.Config, function string) {
	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithFunction(function),
	)
}
