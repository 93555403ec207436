package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"github.com/nsxzhou1114/news-portal/internal/service"
	"github.com/nsxzhou1114/news-portal/pkg/response"
	"go.uber.org/zap"
)

// ArticleApi 文章控制器
type ArticleApi struct {
	logger         *zap.SugaredLogger
	articleService *service.ArticleService
}

// NewArticleApi 创建文章控制器实例
func NewArticleApi(articleService *service.ArticleService, log *zap.Logger) *ArticleApi {
	return &ArticleApi{
		logger:         log.Sugar(),
		articleService: articleService,
	}
}

// Create 创建文章
func (api *ArticleApi) Create(c *gin.Context) {
	var req dto.ArticleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	article, err := api.articleService.Create(c.Request.Context(), &req)
	if err != nil {
		api.fail(c, err, "创建文章失败")
		return
	}
	response.Created(c, "创建成功", article)
}

// Update 更新文章
func (api *ArticleApi) Update(c *gin.Context) {
	id, ok := parseID(c, "文章")
	if !ok {
		return
	}

	var req dto.ArticleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	article, err := api.articleService.Update(c.Request.Context(), id, &req)
	if err != nil {
		api.fail(c, err, "更新文章失败")
		return
	}
	response.Success(c, "更新成功", article)
}

// Delete 删除文章
func (api *ArticleApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "文章")
	if !ok {
		return
	}

	if err := api.articleService.Delete(c.Request.Context(), id); err != nil {
		api.fail(c, err, "删除文章失败")
		return
	}
	response.Success(c, "删除成功", nil)
}

// GetByID 获取文章详情
func (api *ArticleApi) GetByID(c *gin.Context) {
	id, ok := parseID(c, "文章")
	if !ok {
		return
	}

	article, err := api.articleService.Get(c.Request.Context(), id)
	if err != nil {
		api.fail(c, err, "获取文章失败")
		return
	}
	response.Success(c, "获取成功", article)
}

// List 文章列表，未传分页参数时返回全部
func (api *ArticleApi) List(c *gin.Context) {
	var req dto.ArticleQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	filter := repository.ArticleFilter{CategoryID: req.CategoryID, Keyword: req.Keyword}
	var (
		data any
		err  error
	)
	if req.Paginated() {
		data, err = api.articleService.ListPage(c.Request.Context(), filter, req.PageQuery)
	} else {
		data, err = api.articleService.ListAll(c.Request.Context(), filter)
	}
	if err != nil {
		api.fail(c, err, "获取文章列表失败")
		return
	}
	response.Success(c, "获取成功", data)
}

// Stats 文章数量统计
func (api *ArticleApi) Stats(c *gin.Context) {
	stats, err := api.articleService.Stats(c.Request.Context())
	if err != nil {
		api.fail(c, err, "获取文章统计失败")
		return
	}
	response.Success(c, "获取成功", stats)
}

func (api *ArticleApi) fail(c *gin.Context, err error, msg string) {
	if !isClientError(err) {
		api.logger.Errorf("%s: %v", msg, err)
	}
	response.HandleError(c, err, msg)
}
