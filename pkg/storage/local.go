package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nsxzhou1114/news-portal/internal/model"
)

// Local 本地目录存储
type Local struct {
	dir       string
	urlPrefix string
}

// NewLocal 创建本地存储
func NewLocal(dir, urlPrefix string) *Local {
	return &Local{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Type 存储类型
func (l *Local) Type() string {
	return model.StorageLocal
}

// Dir 上传目录
func (l *Local) Dir() string {
	return l.dir
}

// Save 写入上传目录，写入失败时清理半成品文件
func (l *Local) Save(_ context.Context, filename string, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("创建上传目录失败: %w", err)
	}

	path := filepath.Join(l.dir, filepath.Base(filename))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("创建文件失败: %w", err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("保存文件失败: %w", err)
	}
	return path, written, nil
}

// Remove 删除文件，文件已不存在视为成功
func (l *Local) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL 访问地址
func (l *Local) URL(path string) string {
	return l.urlPrefix + "/" + filepath.Base(path)
}
