package repository

import (
	"context"

	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"gorm.io/gorm"
)

// CategoryRepo 分类仓储
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建分类仓储
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create 新增分类
func (r *CategoryRepo) Create(ctx context.Context, category *model.Category) error {
	return errs.Storage("category.create", r.db.WithContext(ctx).Create(category).Error)
}

// GetByID 根据ID获取分类
func (r *CategoryRepo) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	return getByID[model.Category](ctx, r.db, "category", id)
}

// Update 部分更新分类
func (r *CategoryRepo) Update(ctx context.Context, id uint, fields map[string]any) (*model.Category, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, errs.Storage("category.update", err)
		}
	}
	return r.GetByID(ctx, id)
}

// Delete 删除分类
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Category](ctx, r.db, "category", id)
}

// List 按ID升序返回全部分类
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	categories := make([]model.Category, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, errs.Storage("category.list", err)
	}
	return categories, nil
}

// ListPage 按ID升序返回一页分类
func (r *CategoryRepo) ListPage(ctx context.Context, offset, limit int) ([]model.Category, error) {
	categories := make([]model.Category, 0, limit)
	err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&categories).Error
	if err != nil {
		return nil, errs.Storage("category.list_page", err)
	}
	return categories, nil
}

// ListByIDs 按ID批量获取分类
func (r *CategoryRepo) ListByIDs(ctx context.Context, ids []uint) ([]model.Category, error) {
	categories := make([]model.Category, 0, len(ids))
	if len(ids) == 0 {
		return categories, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, errs.Storage("category.list_by_ids", err)
	}
	return categories, nil
}

// Count 统计分类数
func (r *CategoryRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Count(&total).Error; err != nil {
		return 0, errs.Storage("category.count", err)
	}
	return total, nil
}

// Exists 判断分类是否存在
func (r *CategoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&total).Error; err != nil {
		return false, errs.Storage("category.exists", err)
	}
	return total > 0, nil
}

// IDs 返回全部分类ID，升序
func (r *CategoryRepo) IDs(ctx context.Context) ([]uint, error) {
	return orderedIDs(ctx, r.db, model.Category{}.TableName())
}

// Renumber 修改分类主键
func (r *CategoryRepo) Renumber(ctx context.Context, oldID, newID uint) error {
	return renumber(ctx, r.db, model.Category{}.TableName(), oldID, newID)
}
