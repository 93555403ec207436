package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/tencentyun/cos-go-sdk-v5"
)

// COS 腾讯云对象存储
type COS struct {
	client    *cos.Client
	bucketURL string
	prefix    string
}

// NewCOS 创建COS存储
func NewCOS(cfg config.MediaCOSConfig) (*COS, error) {
	u, err := url.Parse(cfg.BucketURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("解析COS URL失败: %q", cfg.BucketURL)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "media"
	}
	return &COS{
		client:    client,
		bucketURL: strings.TrimRight(cfg.BucketURL, "/"),
		prefix:    prefix,
	}, nil
}

// Type 存储类型
func (c *COS) Type() string {
	return model.StorageCOS
}

// Save 上传对象，返回对象键
func (c *COS) Save(ctx context.Context, filename string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, fmt.Errorf("读取文件数据失败: %w", err)
	}

	key := path.Join(c.prefix, path.Base(filename))
	if _, err := c.client.Object.Put(ctx, key, bytes.NewReader(data), nil); err != nil {
		return "", 0, fmt.Errorf("上传到腾讯云失败: %w", err)
	}
	return key, int64(len(data)), nil
}

// Remove 删除对象
func (c *COS) Remove(ctx context.Context, key string) error {
	_, err := c.client.Object.Delete(ctx, key)
	return err
}

// URL 访问地址
func (c *COS) URL(key string) string {
	return c.bucketURL + "/" + key
}
