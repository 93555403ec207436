package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的控制器
type Handlers struct {
	Article  *controller.ArticleApi
	Category *controller.CategoryApi
	Media    *controller.MediaApi
	News     *controller.NewsApi
	System   *controller.SystemApi
	RSS      *controller.RSSApi
}

// Options 路由选项
type Options struct {
	// UploadDir 本地上传目录，为空时不提供静态文件服务
	UploadDir string
	// UploadURL 静态文件访问前缀
	UploadURL string
	// Gatherer 指标来源，为空时不注册 /metrics
	Gatherer prometheus.Gatherer
}

// Setup 设置API路由
func Setup(r *gin.Engine, h *Handlers, opts Options) {
	// 静态文件服务，前端直接访问本地上传的图片
	if opts.UploadDir != "" && opts.UploadURL != "" {
		r.Static(opts.UploadURL, opts.UploadDir)
	}
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// API 路由组
	api := r.Group("/api")

	setupArticleRoutes(api, h.Article)
	setupCategoryRoutes(api, h.Category)
	setupMediaRoutes(api, h.Media)
	setupNewsRoutes(api, h.News)

	// RSS 订阅
	api.GET("/rss", h.RSS.Feed)

	api.GET("/stats", h.System.Stats)
	api.GET("/health", h.System.Health)
}

// setupArticleRoutes 设置文章相关路由
func setupArticleRoutes(api *gin.RouterGroup, articleApi *controller.ArticleApi) {
	articleRoutes := api.Group("/articles")
	{
		articleRoutes.GET("", articleApi.List)
		articleRoutes.GET("/stats", articleApi.Stats)
		articleRoutes.GET("/:id", articleApi.GetByID)
		articleRoutes.POST("", articleApi.Create)
		articleRoutes.PUT("/:id", articleApi.Update)
		articleRoutes.DELETE("/:id", articleApi.Delete)
	}
}

// setupCategoryRoutes 设置分类相关路由
func setupCategoryRoutes(api *gin.RouterGroup, categoryApi *controller.CategoryApi) {
	categoryRoutes := api.Group("/categories")
	{
		categoryRoutes.GET("", categoryApi.List)
		categoryRoutes.GET("/:id", categoryApi.GetByID)
		// 分类下的文章
		categoryRoutes.GET("/:id/articles", categoryApi.Articles)
		categoryRoutes.POST("", categoryApi.Create)
		categoryRoutes.PUT("/:id", categoryApi.Update)
		categoryRoutes.DELETE("/:id", categoryApi.Delete)
	}
}

// setupMediaRoutes 设置媒体相关路由
func setupMediaRoutes(api *gin.RouterGroup, mediaApi *controller.MediaApi) {
	mediaRoutes := api.Group("/media")
	{
		mediaRoutes.GET("", mediaApi.List)
		mediaRoutes.GET("/count", mediaApi.Count)
		mediaRoutes.GET("/:id", mediaApi.GetByID)
		mediaRoutes.POST("", mediaApi.Upload)
		mediaRoutes.DELETE("/:id", mediaApi.Delete)
	}
}

// setupNewsRoutes 设置第三方新闻路由
func setupNewsRoutes(api *gin.RouterGroup, newsApi *controller.NewsApi) {
	newsRoutes := api.Group("/news")
	{
		newsRoutes.GET("/headlines", newsApi.Headlines)
		newsRoutes.GET("/search", newsApi.Search)
		newsRoutes.GET("/sources", newsApi.Sources)
		newsRoutes.POST("/cache/clear", newsApi.ClearCache)
	}
}
