package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/internal/service"
	"github.com/nsxzhou1114/news-portal/pkg/response"
	"go.uber.org/zap"
)

// MediaApi 媒体文件控制器
type MediaApi struct {
	logger       *zap.SugaredLogger
	mediaService *service.MediaService
}

// NewMediaApi 创建媒体控制器
func NewMediaApi(mediaService *service.MediaService, log *zap.Logger) *MediaApi {
	return &MediaApi{
		logger:       log.Sugar(),
		mediaService: mediaService,
	}
}

// Upload 上传文件，表单字段 file
func (api *MediaApi) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.HandleError(c, errs.Invalid("file", "未选择文件"), "上传失败")
		return
	}

	media, err := api.mediaService.UploadFile(c.Request.Context(), fh)
	if err != nil {
		api.fail(c, err, "上传失败")
		return
	}
	response.Created(c, "上传成功", media)
}

// List 媒体列表
func (api *MediaApi) List(c *gin.Context) {
	items, err := api.mediaService.List(c.Request.Context())
	if err != nil {
		api.fail(c, err, "获取媒体列表失败")
		return
	}
	response.Success(c, "获取成功", items)
}

// Count 媒体总数
func (api *MediaApi) Count(c *gin.Context) {
	n, err := api.mediaService.Count(c.Request.Context())
	if err != nil {
		api.fail(c, err, "获取媒体数量失败")
		return
	}
	response.Success(c, "获取成功", gin.H{"count": n})
}

// GetByID 媒体详情
func (api *MediaApi) GetByID(c *gin.Context) {
	id, ok := parseID(c, "媒体")
	if !ok {
		return
	}
	media, err := api.mediaService.Get(c.Request.Context(), id)
	if err != nil {
		api.fail(c, err, "获取媒体失败")
		return
	}
	response.Success(c, "获取成功", media)
}

// Delete 删除媒体记录和文件
func (api *MediaApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "媒体")
	if !ok {
		return
	}
	if err := api.mediaService.Delete(c.Request.Context(), id); err != nil {
		api.fail(c, err, "删除媒体失败")
		return
	}
	response.Success(c, "删除成功", nil)
}

func (api *MediaApi) fail(c *gin.Context, err error, msg string) {
	if !isClientError(err) {
		api.logger.Errorf("%s: %v", msg, err)
	}
	response.HandleError(c, err, msg)
}
