package database

import (
	"context"
	"fmt"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OpenRedis 初始化Redis连接，未启用时返回 nil
func OpenRedis(ctx context.Context, cfg *config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接redis失败: %w", err)
	}

	log.Info("redis连接成功", zap.String("addr", cfg.Addr()))
	return client, nil
}
