package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"taxifrota/config"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

const statsKey = "dashboard:stats"

type statsCache struct {
	client *goredis.Client
	ttl    time.Duration
	log    logger.ILogger
}

func NewClient(cfg config.Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func NewStatsCache(client *goredis.Client, ttl time.Duration, log logger.ILogger) storage.IStatsCache {
	return &statsCache{client: client, ttl: ttl, log: log}
}

func (c *statsCache) Get(ctx context.Context) (*models.DashboardStats, bool) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warning("stats cache read failed", logger.Error(err))
		}
		return nil, false
	}
	var stats models.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warning("stats cache holds invalid data", logger.Error(err))
		return nil, false
	}
	return &stats, true
}

func (c *statsCache) Set(ctx context.Context, stats *models.DashboardStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		c.log.Error("failed to encode dashboard stats", logger.Error(err))
		return
	}
	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		c.log.Warning("stats cache write failed", logger.Error(err))
	}
}

func (c *statsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		c.log.Warning("stats cache invalidate failed", logger.Error(err))
	}
}

type nopCache struct{}

// NewNopCache never hits.
func NewNopCache() storage.IStatsCache { return nopCache{} }

func (nopCache) Get(context.Context) (*models.DashboardStats, bool) { return nil, false }
func (nopCache) Set(context.Context, *models.DashboardStats)        {}
func (nopCache) Invalidate(context.Context)                         {}
