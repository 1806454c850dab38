package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
)

func TestUnreachableCacheIsBypassed(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewStatsCache(client, time.Minute, logger.NewNop())
	ctx := context.Background()

	cache.Set(ctx, &models.DashboardStats{TotalDrivers: 3})
	stats, ok := cache.Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, stats)
	cache.Invalidate(ctx)
}

func TestNopCache(t *testing.T) {
	c := NewNopCache()
	c.Set(context.Background(), &models.DashboardStats{})
	_, ok := c.Get(context.Background())
	assert.False(t, ok)
}
