package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/internal/metrics"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"github.com/nsxzhou1114/news-portal/pkg/storage"
	"go.uber.org/zap"
)

// MediaService 媒体文件服务
type MediaService struct {
	repos       *repository.Repositories
	storage     storage.Storage
	stats       StatsInvalidator
	metrics     *metrics.Metrics
	log         *zap.Logger
	allowed     map[string]struct{}
	maxFileSize int64
	now         func() time.Time
}

// NewMediaService 创建媒体服务实例
func NewMediaService(repos *repository.Repositories, store storage.Storage, stats StatsInvalidator, cfg *config.MediaConfig, m *metrics.Metrics, log *zap.Logger) *MediaService {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &MediaService{
		repos:       repos,
		storage:     store,
		stats:       stats,
		metrics:     m,
		log:         log,
		allowed:     allowed,
		maxFileSize: cfg.MaxFileSize,
		now:         time.Now,
	}
}

// UploadFile 处理表单上传的文件
func (s *MediaService) UploadFile(ctx context.Context, fh *multipart.FileHeader) (*dto.MediaResponse, error) {
	if fh == nil {
		return nil, errs.Invalid("file", "未选择文件")
	}
	if s.maxFileSize > 0 && fh.Size > s.maxFileSize {
		return nil, errs.Invalid("file", fmt.Sprintf("文件大小不能超过%d字节", s.maxFileSize))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errs.Invalid("file", "读取上传文件失败")
	}
	defer f.Close()
	return s.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
}

// Upload 校验扩展名后保存文件并记录，文件大小取实际写入字节数
func (s *MediaService) Upload(ctx context.Context, originalName, contentType string, r io.Reader) (*dto.MediaResponse, error) {
	ext, err := s.extension(originalName)
	if err != nil {
		return nil, err
	}

	filename := s.generateFilename(ext)
	src := r
	if s.maxFileSize > 0 {
		src = io.LimitReader(r, s.maxFileSize+1)
	}
	path, written, err := s.storage.Save(ctx, filename, src)
	if err != nil {
		return nil, errs.Storage("media.save", err)
	}
	if s.maxFileSize > 0 && written > s.maxFileSize {
		s.removeFile(ctx, path)
		return nil, errs.Invalid("file", fmt.Sprintf("文件大小不能超过%d字节", s.maxFileSize))
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "image/" + ext
	}
	media := &model.Media{
		Filename:     filename,
		OriginalName: filepath.Base(originalName),
		FileType:     contentType,
		FileSize:     written,
		FilePath:     path,
		StorageType:  s.storage.Type(),
		UploadedAt:   s.now(),
	}
	if err := s.repos.Media.Create(ctx, media); err != nil {
		// 记录写入失败，清理已保存的文件
		s.removeFile(ctx, path)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.MediaUploaded.Inc()
	}
	s.stats.InvalidateStats(ctx)
	s.log.Info("上传媒体文件", zap.Uint("id", media.ID), zap.String("filename", filename), zap.Int64("size", written))
	return s.toResponse(media), nil
}

// Get 获取媒体详情
func (s *MediaService) Get(ctx context.Context, id uint) (*dto.MediaResponse, error) {
	media, err := s.repos.Media.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(media), nil
}

// List 按上传时间倒序列出媒体
func (s *MediaService) List(ctx context.Context) ([]dto.MediaResponse, error) {
	items, err := s.repos.Media.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MediaResponse, 0, len(items))
	for i := range items {
		out = append(out, *s.toResponse(&items[i]))
	}
	return out, nil
}

// Count 媒体总数
func (s *MediaService) Count(ctx context.Context) (int64, error) {
	return s.repos.Media.Count(ctx)
}

// Delete 删除记录，文件删除失败只记录日志
func (s *MediaService) Delete(ctx context.Context, id uint) error {
	media, err := s.repos.Media.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repos.Media.Delete(ctx, id); err != nil {
		return err
	}
	s.removeFile(ctx, media.FilePath)
	s.stats.InvalidateStats(ctx)
	s.log.Info("删除媒体文件", zap.Uint("id", id), zap.String("filename", media.Filename))
	return nil
}

// extension 取小写扩展名并校验白名单
func (s *MediaService) extension(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "", errs.Invalid("file", "缺少文件扩展名")
	}
	if _, ok := s.allowed[ext]; !ok {
		return "", errs.Invalid("file", "不支持的文件类型: "+ext)
	}
	return ext, nil
}

// generateFilename 时间戳加随机后缀，格式 YYYYMMDD_HHMMSS_xxxxxxxx.ext
func (s *MediaService) generateFilename(ext string) string {
	return fmt.Sprintf("%s_%s.%s", s.now().Format("20060102_150405"), uuid.NewString()[:8], ext)
}

func (s *MediaService) removeFile(ctx context.Context, path string) {
	if err := s.storage.Remove(ctx, path); err != nil {
		if s.metrics != nil {
			s.metrics.MediaFileLeaks.Inc()
		}
		s.log.Warn("删除媒体文件失败", zap.String("path", path), zap.Error(err))
	}
}

func (s *MediaService) toResponse(m *model.Media) *dto.MediaResponse {
	return &dto.MediaResponse{
		ID:           m.ID,
		Filename:     m.Filename,
		OriginalName: m.OriginalName,
		FileType:     m.FileType,
		FileSize:     m.FileSize,
		FilePath:     m.FilePath,
		StorageType:  m.StorageType,
		URL:          s.storage.URL(m.FilePath),
		UploadedAt:   m.UploadedAt,
	}
}
