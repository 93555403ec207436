package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/service"
	"github.com/nsxzhou1114/news-portal/pkg/response"
	"go.uber.org/zap"
)

// SystemApi 系统控制器
type SystemApi struct {
	logger        *zap.SugaredLogger
	systemService *service.SystemService
}

// NewSystemApi 创建系统控制器
func NewSystemApi(systemService *service.SystemService, log *zap.Logger) *SystemApi {
	return &SystemApi{
		logger:        log.Sugar(),
		systemService: systemService,
	}
}

// Health 健康检查，数据库不可用时返回503
func (api *SystemApi) Health(c *gin.Context) {
	health := api.systemService.Health(c.Request.Context())
	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Code:    http.StatusServiceUnavailable,
			Message: health.Status,
			Data:    health,
		})
		return
	}
	response.Success(c, health.Status, health)
}

// Stats 仪表盘统计
func (api *SystemApi) Stats(c *gin.Context) {
	stats, err := api.systemService.Stats(c.Request.Context())
	if err != nil {
		api.logger.Errorf("获取统计失败: %v", err)
		response.HandleError(c, err, "获取统计失败")
		return
	}
	response.Success(c, "获取成功", stats)
}
