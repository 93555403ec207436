package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/internal/metrics"
	"github.com/nsxzhou1114/news-portal/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stepClock 手动推进的时钟
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeFetcher 记录调用次数的上游替身
type fakeFetcher struct {
	calls      atomic.Int32
	err        error
	result     *dto.NewsList
	release    chan struct{}
	lastParams map[string]string
	mu         sync.Mutex
}

func (f *fakeFetcher) fetch(ctx context.Context, params map[string]string) (*dto.NewsList, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastParams = params
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &dto.NewsList{
		TotalResults: 1,
		Articles:     []dto.NewsItem{{Title: "hello", SourceName: "Wire"}},
	}, nil
}

func (f *fakeFetcher) Latest(ctx context.Context, params map[string]string) (*dto.NewsList, error) {
	return f.fetch(ctx, params)
}

func (f *fakeFetcher) Search(ctx context.Context, params map[string]string) (*dto.NewsList, error) {
	return f.fetch(ctx, params)
}

func (f *fakeFetcher) Sources(ctx context.Context, params map[string]string) (*dto.NewsSourceList, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.NewsSourceList{Sources: []dto.NewsSource{{ID: "bbc", Name: "BBC"}}}, nil
}

func (f *fakeFetcher) params() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastParams
}

func newNewsService(t *testing.T, f *fakeFetcher) (*NewsService, *stepClock, *metrics.Metrics) {
	t.Helper()
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := metrics.New(prometheus.NewRegistry())
	cfg := &config.NewsConfig{Country: "us"}
	return NewNewsService(f, cache.NewMemoryCache(clock), cfg, m, zap.NewNop()), clock, m
}

func TestNewsService_SearchCachesIdenticalRequests(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{}
	svc, _, m := newNewsService(t, f)

	req := &dto.NewsSearchRequest{Query: "golang"}
	first, err := svc.Search(ctx, req, false)
	require.NoError(t, err)
	second, err := svc.Search(ctx, req, false)
	require.NoError(t, err)

	require.EqualValues(t, 1, f.calls.Load())
	require.Equal(t, first, second)
	require.Equal(t, float64(1), testutil.ToFloat64(m.NewsCache.WithLabelValues(cache.EndpointSearch, metrics.CacheMiss)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.NewsCache.WithLabelValues(cache.EndpointSearch, metrics.CacheHit)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.NewsUpstream.WithLabelValues(cache.EndpointSearch, "success")))

	// 参数不同则是不同的键
	_, err = svc.Search(ctx, &dto.NewsSearchRequest{Query: "rust"}, false)
	require.NoError(t, err)
	require.EqualValues(t, 2, f.calls.Load())
}

func TestNewsService_SearchDefaults(t *testing.T) {
	f := &fakeFetcher{}
	svc, _, _ := newNewsService(t, f)

	_, err := svc.Search(context.Background(), &dto.NewsSearchRequest{Query: "  ai  "}, false)
	require.NoError(t, err)

	params := f.params()
	require.Equal(t, "ai", params["q"])
	require.Equal(t, "publishedAt", params["sortBy"])
	require.Equal(t, "1", params["page"])
	require.Equal(t, "10", params["pageSize"])
}

func TestNewsService_HeadlinesDefaultCountry(t *testing.T) {
	f := &fakeFetcher{}
	svc, _, _ := newNewsService(t, f)

	_, err := svc.Headlines(context.Background(), &dto.NewsHeadlinesRequest{Category: "business", PageSize: 20}, false)
	require.NoError(t, err)

	params := f.params()
	require.Equal(t, "us", params["country"])
	require.Equal(t, "business", params["category"])
	require.Equal(t, "20", params["pageSize"])
}

func TestNewsService_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{}
	svc, clock, _ := newNewsService(t, f)
	req := &dto.NewsHeadlinesRequest{}

	_, err := svc.Headlines(ctx, req, false)
	require.NoError(t, err)

	clock.Advance(cache.HeadlinesExpiration - time.Second)
	_, err = svc.Headlines(ctx, req, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.calls.Load())

	clock.Advance(2 * time.Second)
	_, err = svc.Headlines(ctx, req, false)
	require.NoError(t, err)
	require.EqualValues(t, 2, f.calls.Load())
}

func TestNewsService_NoCacheBypassesReadAndWrite(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{}
	svc, _, m := newNewsService(t, f)
	req := &dto.NewsSearchRequest{Query: "go"}

	_, err := svc.Search(ctx, req, true)
	require.NoError(t, err)
	// 绕过缓存的结果不写入
	_, err = svc.Search(ctx, req, false)
	require.NoError(t, err)
	require.EqualValues(t, 2, f.calls.Load())

	// 已缓存时 noCache 仍然请求上游
	_, err = svc.Search(ctx, req, true)
	require.NoError(t, err)
	require.EqualValues(t, 3, f.calls.Load())

	require.Equal(t, float64(2), testutil.ToFloat64(m.NewsCache.WithLabelValues(cache.EndpointSearch, metrics.CacheBypass)))
}

func TestNewsService_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{err: &errs.UpstreamError{Endpoint: "search", StatusCode: 429, Message: "rate limited"}}
	svc, _, m := newNewsService(t, f)
	req := &dto.NewsSearchRequest{Query: "go"}

	_, err := svc.Search(ctx, req, false)
	require.ErrorIs(t, err, errs.ErrUpstream)
	var ue *errs.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, 429, ue.StatusCode)

	f.err = nil
	res, err := svc.Search(ctx, req, false)
	require.NoError(t, err)
	require.Len(t, res.Articles, 1)
	require.EqualValues(t, 2, f.calls.Load())
	require.Equal(t, float64(1), testutil.ToFloat64(m.NewsUpstream.WithLabelValues(cache.EndpointSearch, "error")))
}

func TestNewsService_EmptyResultIsCached(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{result: &dto.NewsList{Articles: []dto.NewsItem{}}}
	svc, _, _ := newNewsService(t, f)
	req := &dto.NewsSearchRequest{Query: "nothing"}

	res, err := svc.Search(ctx, req, false)
	require.NoError(t, err)
	require.Empty(t, res.Articles)
	require.Zero(t, res.TotalResults)

	_, err = svc.Search(ctx, req, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.calls.Load())
}

func TestNewsService_SearchRequiresQuery(t *testing.T) {
	f := &fakeFetcher{}
	svc, _, _ := newNewsService(t, f)

	for _, q := range []string{"", "   "} {
		_, err := svc.Search(context.Background(), &dto.NewsSearchRequest{Query: q}, false)
		require.ErrorIs(t, err, errs.ErrValidation)
		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "q", ve.Field)
	}
	require.Zero(t, f.calls.Load())
}

func TestNewsService_Clear(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{}
	svc, _, _ := newNewsService(t, f)

	_, err := svc.Headlines(ctx, &dto.NewsHeadlinesRequest{}, false)
	require.NoError(t, err)
	_, err = svc.Sources(ctx, &dto.NewsSourcesRequest{}, false)
	require.NoError(t, err)

	require.Equal(t, 2, svc.Clear())
	require.Equal(t, 0, svc.Clear())

	_, err = svc.Headlines(ctx, &dto.NewsHeadlinesRequest{}, false)
	require.NoError(t, err)
	require.EqualValues(t, 3, f.calls.Load())
}

func TestNewsService_SourcesCached(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{}
	svc, clock, _ := newNewsService(t, f)
	req := &dto.NewsSourcesRequest{Language: "en"}

	res, err := svc.Sources(ctx, req, false)
	require.NoError(t, err)
	require.Equal(t, "BBC", res.Sources[0].Name)

	clock.Advance(30 * time.Minute)
	_, err = svc.Sources(ctx, req, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.calls.Load())
}

func TestNewsService_ConcurrentMissesShareOneCall(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	svc, _, _ := newNewsService(t, f)
	req := &dto.NewsSearchRequest{Query: "burst"}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Search(context.Background(), req, false)
		}(i)
	}

	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(f.release)
	wg.Wait()

	for _, err := range results {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, f.calls.Load())
}

func TestNewsService_ContextCancel(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	t.Cleanup(func() { close(f.release) })
	svc, _, _ := newNewsService(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Search(ctx, &dto.NewsSearchRequest{Query: "x"}, false)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestNewsService_CancelledCallerDoesNotFailOthers(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	svc, _, _ := newNewsService(t, f)
	req := &dto.NewsSearchRequest{Query: "shared"}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Search(ctx, req, false)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type outcome struct {
		list *dto.NewsList
		err  error
	}
	second := make(chan outcome, 1)
	go func() {
		list, err := svc.Search(context.Background(), req, false)
		second <- outcome{list, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(f.release)
	got := <-second
	require.NoError(t, got.err)
	require.Equal(t, "hello", got.list.Articles[0].Title)
	require.EqualValues(t, 1, f.calls.Load())

	_, err := svc.Search(context.Background(), req, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.calls.Load(), "shared result is cached")
}
