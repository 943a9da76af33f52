package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/fastprodman/walletsvc/internal/audit"
	"github.com/fastprodman/walletsvc/internal/config"
	"github.com/fastprodman/walletsvc/internal/events"
	"github.com/fastprodman/walletsvc/internal/infra/logging"
	"github.com/fastprodman/walletsvc/internal/infra/rabbitmq"
	mongoaudit "github.com/fastprodman/walletsvc/internal/repos/audit/mongo"
	"github.com/fastprodman/walletsvc/internal/repos/idempotency"
	redisidem "github.com/fastprodman/walletsvc/internal/repos/idempotency/redis"
	"github.com/fastprodman/walletsvc/pkg/shutdownqueue"
)

// openIdempotency returns nil when Redis is not configured.
func openIdempotency(ctx context.Context, cfg config.RedisConfig) (idempotency.Store, error) {
	if cfg.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, idempotency keys are ignored")
		return nil, nil //nolint:nilnil // disabled
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	shutdownqueue.AddCloser("redis client", client.Close)

	return redisidem.New(client), nil
}

// openAuditSinks always logs audit events and also stores them in Mongo
// when it is configured.
func openAuditSinks(ctx context.Context, cfg config.MongoConfig) ([]audit.Sink, error) {
	sinks := []audit.Sink{audit.NewLogSink(logging.Component("audit"))}

	if cfg.URI == "" {
		log.Warn().Msg("MONGO_URI not set, audit events go to the log only")
		return sinks, nil
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	shutdownqueue.Add(func(c context.Context) error {
		err := client.Disconnect(c)
		if err != nil {
			return fmt.Errorf("disconnect mongo: %w", err)
		}

		return nil
	})

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	repo := mongoaudit.New(client, cfg.Database)

	err = repo.EnsureIndexes(ctx)
	if err != nil {
		return nil, err
	}

	return append(sinks, repo), nil
}

// openPublisher returns nil when RabbitMQ is not configured.
func openPublisher(cfg config.RabbitMQConfig) (events.Publisher, error) {
	if cfg.URL == "" {
		log.Warn().Msg("RABBITMQ_URL not set, domain events are not published")
		return nil, nil //nolint:nilnil // disabled
	}

	pub, closeFn, err := rabbitmq.Dial(cfg.URL, cfg.Exchange, logging.Component("rabbitmq"))
	if err != nil {
		return nil, err
	}

	shutdownqueue.AddCloser("rabbitmq", closeFn)

	return pub, nil
}
