// Package metrics Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 新闻缓存结果标签
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheBypass = "bypass"
)

// Metrics 服务指标集合
type Metrics struct {
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	NewsCache      *prometheus.CounterVec
	NewsUpstream   *prometheus.CounterVec
	Compactions    *prometheus.CounterVec
	MediaUploaded  prometheus.Counter
	MediaFileLeaks prometheus.Counter
}

// New 创建并注册指标，reg 为 nil 时不注册
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "news_portal",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "news_portal",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		NewsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "news_portal",
			Name:      "news_cache_requests_total",
			Help:      "News API cache lookups by endpoint and result.",
		}, []string{"endpoint", "result"}),
		NewsUpstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "news_portal",
			Name:      "news_upstream_calls_total",
			Help:      "Upstream news API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		Compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "news_portal",
			Name:      "compactions_total",
			Help:      "Id compaction runs by table.",
		}, []string{"table"}),
		MediaUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "news_portal",
			Name:      "media_uploaded_total",
			Help:      "Accepted media uploads.",
		}),
		MediaFileLeaks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "news_portal",
			Name:      "media_file_remove_failures_total",
			Help:      "Media files left behind after their record was deleted.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.HTTPRequests,
			m.HTTPDuration,
			m.NewsCache,
			m.NewsUpstream,
			m.Compactions,
			m.MediaUploaded,
			m.MediaFileLeaks,
		)
	}
	return m
}
