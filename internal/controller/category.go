package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/service"
	"github.com/nsxzhou1114/news-portal/pkg/response"
	"go.uber.org/zap"
)

// CategoryApi 分类API控制器
type CategoryApi struct {
	logger          *zap.SugaredLogger
	categoryService *service.CategoryService
	articleService  *service.ArticleService
}

// NewCategoryApi 创建分类API控制器
func NewCategoryApi(categoryService *service.CategoryService, articleService *service.ArticleService, log *zap.Logger) *CategoryApi {
	return &CategoryApi{
		logger:          log.Sugar(),
		categoryService: categoryService,
		articleService:  articleService,
	}
}

// Create 创建分类
func (api *CategoryApi) Create(c *gin.Context) {
	var req dto.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := api.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		api.fail(c, err, "创建分类失败")
		return
	}
	response.Created(c, "创建成功", category)
}

// Update 更新分类
func (api *CategoryApi) Update(c *gin.Context) {
	id, ok := parseID(c, "分类")
	if !ok {
		return
	}

	var req dto.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := api.categoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		api.fail(c, err, "更新分类失败")
		return
	}
	response.Success(c, "更新成功", category)
}

// Delete 删除分类，其下文章变为无分类
func (api *CategoryApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "分类")
	if !ok {
		return
	}

	if err := api.categoryService.Delete(c.Request.Context(), id); err != nil {
		api.fail(c, err, "删除分类失败")
		return
	}
	response.Success(c, "删除成功", nil)
}

// GetByID 根据ID获取分类
func (api *CategoryApi) GetByID(c *gin.Context) {
	id, ok := parseID(c, "分类")
	if !ok {
		return
	}

	category, err := api.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		api.fail(c, err, "获取分类失败")
		return
	}
	response.Success(c, "获取成功", category)
}

// List 分类列表
func (api *CategoryApi) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	var (
		data any
		err  error
	)
	if q.Paginated() {
		data, err = api.categoryService.ListPage(c.Request.Context(), q)
	} else {
		data, err = api.categoryService.ListAll(c.Request.Context())
	}
	if err != nil {
		api.fail(c, err, "获取分类列表失败")
		return
	}
	response.Success(c, "获取成功", data)
}

// Articles 分类下的文章
func (api *CategoryApi) Articles(c *gin.Context) {
	id, ok := parseID(c, "分类")
	if !ok {
		return
	}
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	if _, err := api.categoryService.Get(c.Request.Context(), id); err != nil {
		api.fail(c, err, "获取分类失败")
		return
	}
	data, err := api.articleService.ListByCategory(c.Request.Context(), &id, q)
	if err != nil {
		api.fail(c, err, "获取文章列表失败")
		return
	}
	response.Success(c, "获取成功", data)
}

func (api *CategoryApi) fail(c *gin.Context, err error, msg string) {
	if !isClientError(err) {
		api.logger.Errorf("%s: %v", msg, err)
	}
	response.HandleError(c, err, msg)
}
