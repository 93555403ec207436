package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache miss")

// Store 远程键值缓存接口
type Store interface {
	// Get 获取缓存，未命中返回 ErrMiss
	Get(ctx context.Context, key string) (string, error)

	// Set 设置缓存
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Delete 删除缓存
	Delete(ctx context.Context, keys ...string) error

	// GetJSON 获取JSON格式的缓存并反序列化
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON 序列化为JSON并设置缓存
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Ping 检查连接
	Ping(ctx context.Context) error
}

// 新闻接口端点名称，参与缓存键计算
const (
	EndpointHeadlines = "headlines"
	EndpointSearch    = "search"
	EndpointSources   = "sources"
)

// 统计相关缓存键
const (
	DashboardStatsKey = "stats:dashboard"
)

// 缓存过期时间
const (
	HeadlinesExpiration = 300 * time.Second  // 头条5分钟
	SearchExpiration    = 600 * time.Second  // 搜索10分钟
	SourcesExpiration   = 3600 * time.Second // 新闻源变化少，缓存1小时

	StatsExpiration = 30 * time.Minute // 统计数据缓存30分钟
)
