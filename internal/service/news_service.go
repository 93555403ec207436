package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/internal/metrics"
	"github.com/nsxzhou1114/news-portal/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NewsFetcher 第三方新闻接口
type NewsFetcher interface {
	Latest(ctx context.Context, params map[string]string) (*dto.NewsList, error)
	Search(ctx context.Context, params map[string]string) (*dto.NewsList, error)
	Sources(ctx context.Context, params map[string]string) (*dto.NewsSourceList, error)
}

// NewsService 带进程内缓存的新闻代理
type NewsService struct {
	fetcher NewsFetcher
	cache   *cache.MemoryCache
	group   singleflight.Group
	ttl     config.NewsTTLConfig
	country string
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewNewsService 创建新闻服务，未配置的TTL使用默认值
func NewNewsService(fetcher NewsFetcher, c *cache.MemoryCache, cfg *config.NewsConfig, m *metrics.Metrics, log *zap.Logger) *NewsService {
	ttl := cfg.TTL
	if ttl.Headlines <= 0 {
		ttl.Headlines = cache.HeadlinesExpiration
	}
	if ttl.Search <= 0 {
		ttl.Search = cache.SearchExpiration
	}
	if ttl.Sources <= 0 {
		ttl.Sources = cache.SourcesExpiration
	}
	return &NewsService{
		fetcher: fetcher,
		cache:   c,
		ttl:     ttl,
		country: cfg.Country,
		metrics: m,
		log:     log,
	}
}

// Headlines 头条新闻
func (s *NewsService) Headlines(ctx context.Context, req *dto.NewsHeadlinesRequest, noCache bool) (*dto.NewsList, error) {
	country := req.Country
	if country == "" {
		country = s.country
	}
	params := map[string]string{
		"country":  country,
		"category": req.Category,
		"page":     intOr(req.Page, 1),
		"pageSize": intOr(req.PageSize, 10),
	}
	return fetchCached(ctx, s, cache.EndpointHeadlines, s.ttl.Headlines, params, noCache, s.fetcher.Latest)
}

// Search 关键词搜索，q 必填
func (s *NewsService) Search(ctx context.Context, req *dto.NewsSearchRequest, noCache bool) (*dto.NewsList, error) {
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return nil, errs.Invalid("q", "搜索关键词不能为空")
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "publishedAt"
	}
	params := map[string]string{
		"q":        q,
		"from":     req.From,
		"to":       req.To,
		"sortBy":   sortBy,
		"page":     intOr(req.Page, 1),
		"pageSize": intOr(req.PageSize, 10),
	}
	return fetchCached(ctx, s, cache.EndpointSearch, s.ttl.Search, params, noCache, s.fetcher.Search)
}

// Sources 新闻源列表
func (s *NewsService) Sources(ctx context.Context, req *dto.NewsSourcesRequest, noCache bool) (*dto.NewsSourceList, error) {
	params := map[string]string{
		"country":  req.Country,
		"category": req.Category,
		"language": req.Language,
	}
	return fetchCached(ctx, s, cache.EndpointSources, s.ttl.Sources, params, noCache, s.fetcher.Sources)
}

// Clear 清空全部缓存
func (s *NewsService) Clear() int {
	n := s.cache.Clear()
	s.log.Info("清空新闻缓存", zap.Int("entries", n))
	return n
}

// fetchCached 缓存命中直接返回，未命中时请求上游并写入缓存
//
// 相同键的并发未命中合并为一次上游请求；noCache 跳过本次的读取和写入；上游失败不写缓存。
func fetchCached[T any](ctx context.Context, s *NewsService, endpoint string, ttl time.Duration,
	params map[string]string, noCache bool, fetch func(context.Context, map[string]string) (*T, error)) (*T, error) {
	if noCache {
		s.observeCache(endpoint, metrics.CacheBypass)
		res, err := fetch(ctx, params)
		s.observeUpstream(endpoint, err)
		return res, err
	}

	key := cache.BuildKey(endpoint, params)
	if data, ok := s.cache.Get(key, ttl); ok {
		var out T
		if err := json.Unmarshal(data, &out); err == nil {
			s.observeCache(endpoint, metrics.CacheHit)
			return &out, nil
		}
	}
	s.observeCache(endpoint, metrics.CacheMiss)

	// 共享请求不随任一调用方取消，由 HTTP 客户端超时兜底
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		res, err := fetch(shared, params)
		s.observeUpstream(endpoint, err)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(res)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, data)
		return data, nil
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		s.log.Warn("获取新闻失败", zap.String("endpoint", endpoint), zap.Error(r.Err))
		return nil, r.Err
	}

	var out T
	if err := json.Unmarshal(r.Val.([]byte), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *NewsService) observeCache(endpoint, result string) {
	if s.metrics != nil {
		s.metrics.NewsCache.WithLabelValues(endpoint, result).Inc()
	}
}

func (s *NewsService) observeUpstream(endpoint string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.NewsUpstream.WithLabelValues(endpoint, outcome).Inc()
}

func intOr(v, def int) string {
	if v <= 0 {
		v = def
	}
	return strconv.Itoa(v)
}
