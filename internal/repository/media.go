package repository

import (
	"context"

	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"gorm.io/gorm"
)

// MediaRepo 媒体仓储
type MediaRepo struct {
	db *gorm.DB
}

// NewMediaRepo 创建媒体仓储
func NewMediaRepo(db *gorm.DB) *MediaRepo {
	return &MediaRepo{db: db}
}

// Create 新增媒体记录
func (r *MediaRepo) Create(ctx context.Context, media *model.Media) error {
	return errs.Storage("media.create", r.db.WithContext(ctx).Create(media).Error)
}

// GetByID 根据ID获取媒体记录
func (r *MediaRepo) GetByID(ctx context.Context, id uint) (*model.Media, error) {
	return getByID[model.Media](ctx, r.db, "media", id)
}

// Delete 删除媒体记录
func (r *MediaRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Media](ctx, r.db, "media", id)
}

// List 按上传时间倒序返回全部媒体
func (r *MediaRepo) List(ctx context.Context) ([]model.Media, error) {
	items := make([]model.Media, 0)
	if err := r.db.WithContext(ctx).Order("uploaded_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, errs.Storage("media.list", err)
	}
	return items, nil
}

// Count 统计媒体数
func (r *MediaRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Media{}).Count(&total).Error; err != nil {
		return 0, errs.Storage("media.count", err)
	}
	return total, nil
}
