// Package infrastructure owns the process-wide infrastructure handles.
// Each one is acquired lazily, exactly once, and released by Close on
// shutdown.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pgxpool "github.com/jackc/pgx/v5/pgxpool"
	go_redis "github.com/redis/go-redis/v9"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/config"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/infrastructure/kafka"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/infrastructure/postgres"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/infrastructure/redis"
)

type Factory struct {
	cfg       *config.Config
	pgPool    *pgxpool.Pool
	redisCli  *go_redis.Client
	kafkaProd *kafka.Producer
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		cfg: cfg,
	}
}

func (f *Factory) Postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if f.pgPool != nil {
		return f.pgPool, nil
	}

	var pool *pgxpool.Pool
	var err error

	// Retry connection up to 5 times
	for i := 0; i < 5; i++ {
		pool, err = postgres.NewClient(ctx, postgres.Config{
			URL: f.cfg.Postgres.URL,
		})
		if err == nil {
			break
		}
		slog.Warn("failed to connect to postgres, retrying in 2s",
			"attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to init postgres after retries: %w", err)
	}

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	f.pgPool = pool
	return pool, nil
}

// Redis returns nil without error when no address is configured.
func (f *Factory) Redis(ctx context.Context) (*go_redis.Client, error) {
	if f.redisCli != nil {
		return f.redisCli, nil
	}
	if f.cfg.Redis.Addr == "" {
		return nil, nil
	}

	client, err := redis.NewClient(ctx, redis.Config{
		Addr: f.cfg.Redis.Addr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	f.redisCli = client
	return client, nil
}

// Kafka returns nil when no brokers are configured.
func (f *Factory) Kafka() *kafka.Producer {
	if f.kafkaProd != nil {
		return f.kafkaProd
	}
	if len(f.cfg.Kafka.Brokers) == 0 || f.cfg.Kafka.Brokers[0] == "" {
		return nil
	}

	f.kafkaProd = kafka.NewProducer(kafka.Config{
		Brokers: f.cfg.Kafka.Brokers,
		Topic:   f.cfg.Kafka.Topic,
	})
	return f.kafkaProd
}

func (f *Factory) Close() {
	if f.pgPool != nil {
		f.pgPool.Close()
	}
	if f.redisCli != nil {
		f.redisCli.Close()
	}
	if f.kafkaProd != nil {
		f.kafkaProd.Close()
	}
}
