package repository

import (
	"context"
	"time"

	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"gorm.io/gorm"
)

// ArticleFilter 文章过滤条件
type ArticleFilter struct {
	CategoryID *uint
	Keyword    string
}

// ArticleRepo 文章仓储
type ArticleRepo struct {
	db *gorm.DB
}

// NewArticleRepo 创建文章仓储
func NewArticleRepo(db *gorm.DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

// Create 新增文章并回填ID
func (r *ArticleRepo) Create(ctx context.Context, article *model.Article) error {
	return errs.Storage("article.create", r.db.WithContext(ctx).Create(article).Error)
}

// GetByID 根据ID获取文章
func (r *ArticleRepo) GetByID(ctx context.Context, id uint) (*model.Article, error) {
	return getByID[model.Article](ctx, r.db, "article", id)
}

// Update 部分更新文章
func (r *ArticleRepo) Update(ctx context.Context, id uint, fields map[string]any) (*model.Article, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, errs.Storage("article.update", err)
		}
	}
	return r.GetByID(ctx, id)
}

// Delete 删除文章
func (r *ArticleRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Article](ctx, r.db, "article", id)
}

// query 构建带过滤条件的查询
func (r *ArticleRepo) query(ctx context.Context, f ArticleFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Article{})
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		q = q.Where("(title LIKE ? OR content LIKE ? OR author LIKE ?)", like, like, like)
	}
	return q
}

// List 按创建时间倒序返回全部文章
func (r *ArticleRepo) List(ctx context.Context, f ArticleFilter) ([]model.Article, error) {
	articles := make([]model.Article, 0)
	err := r.query(ctx, f).Order("created_at DESC, id DESC").Find(&articles).Error
	if err != nil {
		return nil, errs.Storage("article.list", err)
	}
	return articles, nil
}

// ListPage 按创建时间倒序返回一页文章
func (r *ArticleRepo) ListPage(ctx context.Context, f ArticleFilter, offset, limit int) ([]model.Article, error) {
	articles := make([]model.Article, 0, limit)
	err := r.query(ctx, f).Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&articles).Error
	if err != nil {
		return nil, errs.Storage("article.list_page", err)
	}
	return articles, nil
}

// Count 统计符合条件的文章数
func (r *ArticleRepo) Count(ctx context.Context, f ArticleFilter) (int64, error) {
	var total int64
	if err := r.query(ctx, f).Count(&total).Error; err != nil {
		return 0, errs.Storage("article.count", err)
	}
	return total, nil
}

// CountCreatedBetween 统计创建时间位于 [from, to) 的文章数
func (r *ArticleRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Article{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&total).Error
	if err != nil {
		return 0, errs.Storage("article.count_between", err)
	}
	return total, nil
}

// CountCreatedSince 统计创建时间不早于 from 的文章数
func (r *ArticleRepo) CountCreatedSince(ctx context.Context, from time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Article{}).
		Where("created_at >= ?", from).
		Count(&total).Error
	if err != nil {
		return 0, errs.Storage("article.count_since", err)
	}
	return total, nil
}

// ListByIDs 按ID批量获取文章
func (r *ArticleRepo) ListByIDs(ctx context.Context, ids []uint) ([]model.Article, error) {
	articles := make([]model.Article, 0, len(ids))
	if len(ids) == 0 {
		return articles, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at DESC, id DESC").Find(&articles).Error
	if err != nil {
		return nil, errs.Storage("article.list_by_ids", err)
	}
	return articles, nil
}

// DetachCategory 将指向该分类的文章置为无分类
func (r *ArticleRepo) DetachCategory(ctx context.Context, categoryID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Article{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil)
	if res.Error != nil {
		return 0, errs.Storage("article.detach_category", res.Error)
	}
	return res.RowsAffected, nil
}

// RemapCategory 批量修改文章的分类引用
func (r *ArticleRepo) RemapCategory(ctx context.Context, oldID, newID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Article{}).
		Where("category_id = ?", oldID).
		Update("category_id", newID)
	if res.Error != nil {
		return 0, errs.Storage("article.remap_category", res.Error)
	}
	return res.RowsAffected, nil
}

// IDs 返回全部文章ID，升序
func (r *ArticleRepo) IDs(ctx context.Context) ([]uint, error) {
	return orderedIDs(ctx, r.db, model.Article{}.TableName())
}

// Renumber 修改文章主键
func (r *ArticleRepo) Renumber(ctx context.Context, oldID, newID uint) error {
	return renumber(ctx, r.db, model.Article{}.TableName(), oldID, newID)
}
