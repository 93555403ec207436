// Package app 组装各层依赖并构建 HTTP 引擎。
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/controller"
	"github.com/nsxzhou1114/news-portal/internal/logger"
	"github.com/nsxzhou1114/news-portal/internal/metrics"
	"github.com/nsxzhou1114/news-portal/internal/middleware"
	"github.com/nsxzhou1114/news-portal/internal/newsapi"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"github.com/nsxzhou1114/news-portal/internal/router"
	"github.com/nsxzhou1114/news-portal/internal/service"
	"github.com/nsxzhou1114/news-portal/pkg/cache"
	"github.com/nsxzhou1114/news-portal/pkg/storage"
	"github.com/nsxzhou1114/news-portal/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// snowflake 起始时间
const snowflakeEpoch = "2024-01-01"

// App 应用依赖集合
type App struct {
	Config     *config.Config
	Repos      *repository.Repositories
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Compactor  *service.Compactor
	System     *service.SystemService
	Articles   *service.ArticleService
	Categories *service.CategoryService
	Media      *service.MediaService
	News       *service.NewsService
	RSS        *service.RSSService
	Engine     *gin.Engine
}

// Options 可替换的外部依赖
type Options struct {
	// Redis 为 nil 时统计不缓存
	Redis *redis.Client
	// Fetcher 为 nil 时使用配置中的新闻接口
	Fetcher service.NewsFetcher
	// Storage 为 nil 时按配置创建
	Storage storage.Storage
}

// New 按配置组装服务与路由
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger, opts Options) (*App, error) {
	repos := repository.New(db)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var store cache.Store
	if opts.Redis != nil {
		store = cache.NewRedisCache(opts.Redis)
	}

	fileStore := opts.Storage
	if fileStore == nil {
		var err error
		if fileStore, err = storage.New(&cfg.Media); err != nil {
			return nil, fmt.Errorf("初始化存储失败: %w", err)
		}
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = newsapi.NewClient(&cfg.News, log)
	}

	paginator := service.NewPaginator(cfg.Query)
	compactor := service.NewCompactor(log, m)
	system := service.NewSystemService(repos, store, log)

	a := &App{
		Config:     cfg,
		Repos:      repos,
		Registry:   reg,
		Metrics:    m,
		Compactor:  compactor,
		System:     system,
		Articles:   service.NewArticleService(repos, compactor, system, paginator, log),
		Categories: service.NewCategoryService(repos, compactor, system, paginator, log),
		Media:      service.NewMediaService(repos, fileStore, system, &cfg.Media, m, log),
		News:       service.NewNewsService(fetcher, cache.NewMemoryCache(nil), &cfg.News, m, log),
		RSS:        service.NewRSSService(repos, cfg.App.Name, log),
	}

	node, err := utils.NewSnowflakeNode(snowflakeEpoch, cfg.App.MachineID)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(node))
	r.Use(logger.GinLogger())
	r.Use(middleware.Cors())
	r.Use(middleware.Metrics(m))
	if cfg.Media.MaxFileSize > 0 {
		// 表单内存上限，超出部分写临时文件
		r.MaxMultipartMemory = cfg.Media.MaxFileSize
	}

	opt := router.Options{Gatherer: reg}
	if local, ok := fileStore.(*storage.Local); ok {
		opt.UploadDir = local.Dir()
		opt.UploadURL = cfg.Media.Local.URLPrefix
	}
	router.Setup(r, &router.Handlers{
		Article:  controller.NewArticleApi(a.Articles, log),
		Category: controller.NewCategoryApi(a.Categories, a.Articles, log),
		Media:    controller.NewMediaApi(a.Media, log),
		News:     controller.NewNewsApi(a.News, log),
		System:   controller.NewSystemApi(system, log),
		RSS:      controller.NewRSSApi(a.RSS, log),
	}, opt)
	a.Engine = r
	return a, nil
}
