package service

import (
	"context"
	"strings"

	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"go.uber.org/zap"
)

// CategoryService 分类服务
type CategoryService struct {
	repos     *repository.Repositories
	compactor *Compactor
	stats     StatsInvalidator
	paginator Paginator
	log       *zap.Logger
}

// NewCategoryService 创建分类服务实例
func NewCategoryService(repos *repository.Repositories, compactor *Compactor, stats StatsInvalidator, paginator Paginator, log *zap.Logger) *CategoryService {
	return &CategoryService{
		repos:     repos,
		compactor: compactor,
		stats:     stats,
		paginator: paginator,
		log:       log,
	}
}

// Create 创建分类，名称允许重复
func (s *CategoryService) Create(ctx context.Context, req *dto.CategoryCreateRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Invalid("name", "不能为空")
	}
	category := &model.Category{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.repos.Categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.stats.InvalidateStats(ctx)
	s.log.Info("创建分类", zap.Uint("id", category.ID), zap.String("name", category.Name))
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name, Description: category.Description}, nil
}

// Get 获取分类详情及文章数
func (s *CategoryService) Get(ctx context.Context, id uint) (*dto.CategoryResponse, error) {
	category, err := s.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repos.Articles.Count(ctx, repository.ArticleFilter{CategoryID: &category.ID})
	if err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{
		ID:           category.ID,
		Name:         category.Name,
		Description:  category.Description,
		ArticleCount: count,
	}, nil
}

// Update 部分更新分类
func (s *CategoryService) Update(ctx context.Context, id uint, req *dto.CategoryUpdateRequest) (*dto.CategoryResponse, error) {
	fields := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.Invalid("name", "不能为空")
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if _, err := s.repos.Categories.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete 删除分类并重排ID
//
// 被删分类下的文章先置为无分类，之后剩余分类重排，文章引用随之更新。
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	var detached int64
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Categories.Delete(ctx, id); err != nil {
			return err
		}
		var err error
		if detached, err = tx.Articles.DetachCategory(ctx, id); err != nil {
			return err
		}
		_, err = s.compactor.CompactCategories(ctx, tx)
		return err
	})
	if err != nil {
		return err
	}
	s.compactor.ResetSequences(ctx, s.repos, model.Category{}.TableName())
	s.stats.InvalidateStats(ctx)
	s.log.Info("删除分类", zap.Uint("id", id), zap.Int64("detached_articles", detached))
	return nil
}

// ListAll 返回全部分类，按ID升序
func (s *CategoryService) ListAll(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, categories)
}

// ListPage 分页列出分类
func (s *CategoryService) ListPage(ctx context.Context, q dto.PageQuery) (*dto.Page[dto.CategoryResponse], error) {
	page, perPage, err := s.paginator.Resolve(q)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.Categories.Count(ctx)
	if err != nil {
		return nil, err
	}
	var categories []model.Category
	if offset := dto.Offset(page, perPage); int64(offset) < total {
		if categories, err = s.repos.Categories.ListPage(ctx, offset, perPage); err != nil {
			return nil, err
		}
	}
	items, err := s.toResponses(ctx, categories)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, total, page, perPage), nil
}

// toResponses 逐个统计分类下的文章数
func (s *CategoryService) toResponses(ctx context.Context, categories []model.Category) ([]dto.CategoryResponse, error) {
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		id := c.ID
		count, err := s.repos.Articles.Count(ctx, repository.ArticleFilter{CategoryID: &id})
		if err != nil {
			return nil, err
		}
		out = append(out, dto.CategoryResponse{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			ArticleCount: count,
		})
	}
	return out, nil
}
