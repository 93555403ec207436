package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/service"
	"github.com/nsxzhou1114/news-portal/pkg/response"
	"go.uber.org/zap"
)

// NewsApi 第三方新闻控制器
type NewsApi struct {
	logger      *zap.SugaredLogger
	newsService *service.NewsService
}

// NewNewsApi 创建新闻控制器
func NewNewsApi(newsService *service.NewsService, log *zap.Logger) *NewsApi {
	return &NewsApi{
		logger:      log.Sugar(),
		newsService: newsService,
	}
}

// Headlines 头条新闻
func (api *NewsApi) Headlines(c *gin.Context) {
	var req dto.NewsHeadlinesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := api.newsService.Headlines(c.Request.Context(), &req, noCache(req.NoCache))
	if err != nil {
		api.fail(c, err, "获取头条新闻失败")
		return
	}
	response.Success(c, "获取成功", res)
}

// Search 搜索新闻
func (api *NewsApi) Search(c *gin.Context) {
	var req dto.NewsSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := api.newsService.Search(c.Request.Context(), &req, noCache(req.NoCache))
	if err != nil {
		api.fail(c, err, "搜索新闻失败")
		return
	}
	response.Success(c, "获取成功", res)
}

// Sources 新闻源
func (api *NewsApi) Sources(c *gin.Context) {
	var req dto.NewsSourcesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := api.newsService.Sources(c.Request.Context(), &req, noCache(req.NoCache))
	if err != nil {
		api.fail(c, err, "获取新闻源失败")
		return
	}
	response.Success(c, "获取成功", res)
}

// ClearCache 清空新闻缓存
func (api *NewsApi) ClearCache(c *gin.Context) {
	n := api.newsService.Clear()
	response.Success(c, "缓存已清空", gin.H{"cleared": n})
}

func (api *NewsApi) fail(c *gin.Context, err error, msg string) {
	if !isClientError(err) {
		api.logger.Warnf("%s: %v", msg, err)
	}
	response.HandleError(c, err, msg)
}
