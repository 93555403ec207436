// Package storage 媒体文件存储后端：本地目录与腾讯云COS。
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/model"
)

// Storage 文件存储接口
type Storage interface {
	// Type 存储类型，写入 media.storage_type
	Type() string
	// Save 写入文件，返回存储路径与实际写入字节数
	Save(ctx context.Context, filename string, r io.Reader) (path string, written int64, err error)
	// Remove 删除文件
	Remove(ctx context.Context, path string) error
	// URL 访问地址
	URL(path string) string
}

// New 根据配置创建存储后端
func New(cfg *config.MediaConfig) (Storage, error) {
	switch cfg.Storage {
	case model.StorageLocal:
		return NewLocal(cfg.Local.UploadPath, cfg.Local.URLPrefix), nil
	case model.StorageCOS:
		return NewCOS(cfg.COS)
	default:
		return nil, fmt.Errorf("不支持的存储类型: %s", cfg.Storage)
	}
}
