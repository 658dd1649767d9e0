package cache

import (
	"context"
	"testing"
	"time"

	"doctor-booking/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	cfg := config.RedisConfig{Host: mr.Host(), Port: mr.Port(), PoolSize: 2, DialTimeout: time.Second}
	client, err := NewRedisClient(cfg, log)
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, Ping(context.Background(), client, 0))

	mr.Close()
	assert.Error(t, Ping(context.Background(), client, 200*time.Millisecond))
}
