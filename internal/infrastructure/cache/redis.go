package cache

import (
	"context"
	"fmt"
	"time"

	"doctor-booking/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects the shared lock and token-revocation store.
func NewRedisClient(cfg config.RedisConfig, log *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})

	if err := Ping(context.Background(), client, cfg.DialTimeout); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.WithField("addr", client.Options().Addr).Info("Successfully connected to Redis")
	return client, nil
}

// Ping checks the connection within timeout; a zero timeout uses ctx as is.
func Ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}
