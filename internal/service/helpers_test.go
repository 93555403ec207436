package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/database/dbtest"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/metrics"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"github.com/nsxzhou1114/news-portal/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv 基于内存数据库组装的服务集合
type testEnv struct {
	db         *gorm.DB
	repos      *repository.Repositories
	metrics    *metrics.Metrics
	compactor  *Compactor
	system     *SystemService
	articles   *ArticleService
	categories *CategoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	repos := repository.New(db)
	m := metrics.New(prometheus.NewRegistry())
	log := zap.NewNop()
	paginator := NewPaginator(config.QueryConfig{DefaultPerPage: 12, MaxPerPage: 100})

	compactor := NewCompactor(log, m)
	system := NewSystemService(repos, nil, log)
	return &testEnv{
		db:         db,
		repos:      repos,
		metrics:    m,
		compactor:  compactor,
		system:     system,
		articles:   NewArticleService(repos, compactor, system, paginator, log),
		categories: NewCategoryService(repos, compactor, system, paginator, log),
	}
}

func ptr[T any](v T) *T { return &v }

// createCategory 创建分类并返回ID
func (e *testEnv) createCategory(t *testing.T, name string) uint {
	t.Helper()
	c, err := e.categories.Create(context.Background(), &dto.CategoryCreateRequest{Name: name})
	require.NoError(t, err)
	return c.ID
}

// createArticles 依次创建 n 篇文章，创建时间逐条递增
func (e *testEnv) createArticles(t *testing.T, n int, prefix string, categoryID *uint) []uint {
	t.Helper()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		e.articles.now = func() time.Time { return at }
		a, err := e.articles.Create(context.Background(), &dto.ArticleCreateRequest{
			Title:      fmt.Sprintf("%s-%02d", prefix, i),
			Content:    "content",
			CategoryID: categoryID,
		})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}
	e.articles.now = time.Now
	return ids
}

// allArticles 按ID升序读取全部文章
func (e *testEnv) allArticles(t *testing.T) []model.Article {
	t.Helper()
	var out []model.Article
	require.NoError(t, e.db.Order("id ASC").Find(&out).Error)
	return out
}

// allCategories 按ID升序读取全部分类
func (e *testEnv) allCategories(t *testing.T) []model.Category {
	t.Helper()
	var out []model.Category
	require.NoError(t, e.db.Order("id ASC").Find(&out).Error)
	return out
}

// memoryStore 实现 cache.Store 的内存版本
type memoryStore struct {
	mu      sync.Mutex
	data    map[string]string
	deletes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case string:
		m.data[key] = v
	case []byte:
		m.data[key] = string(v)
	}
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deletes++
	return nil
}

func (m *memoryStore) GetJSON(ctx context.Context, key string, dest interface{}) error {
	v, err := m.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(v), dest)
}

func (m *memoryStore) SetJSON(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.Set(ctx, key, data, exp)
}

func (m *memoryStore) Ping(context.Context) error { return nil }
