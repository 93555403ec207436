package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/service"
	"github.com/nsxzhou1114/news-portal/pkg/response"
	"go.uber.org/zap"
)

// RSSApi RSS订阅控制器
type RSSApi struct {
	logger     *zap.SugaredLogger
	rssService *service.RSSService
}

// NewRSSApi 创建RSS控制器
func NewRSSApi(rssService *service.RSSService, log *zap.Logger) *RSSApi {
	return &RSSApi{
		logger:     log.Sugar(),
		rssService: rssService,
	}
}

// Feed 最新文章RSS
func (api *RSSApi) Feed(c *gin.Context) {
	var query dto.RSSQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	data, err := api.rssService.Feed(c.Request.Context(), &query, baseURL(c))
	if err != nil {
		if !isClientError(err) {
			api.logger.Errorf("生成RSS失败: %v", err)
		}
		response.HandleError(c, err, "生成RSS失败")
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", data)
}

// baseURL 根据请求推断站点地址
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
