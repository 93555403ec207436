package service

import (
	"context"
	"errors"
	"time"

	"github.com/nsxzhou1114/news-portal/internal/database"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"github.com/nsxzhou1114/news-portal/pkg/cache"
	"go.uber.org/zap"
)

// StatsInvalidator 数据变更后使统计缓存失效
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

// SystemService 健康检查、统计与初始数据
type SystemService struct {
	repos *repository.Repositories
	store cache.Store // 可为 nil，表示未启用 Redis
	log   *zap.Logger
	now   func() time.Time
}

// NewSystemService 创建系统服务
func NewSystemService(repos *repository.Repositories, store cache.Store, log *zap.Logger) *SystemService {
	return &SystemService{repos: repos, store: store, log: log, now: time.Now}
}

// Health 检查数据库与 Redis 连通性并返回各表行数
func (s *SystemService) Health(ctx context.Context) *dto.HealthResponse {
	resp := &dto.HealthResponse{
		Status: "healthy",
		Database: dto.DatabaseHealth{
			Status: "connected",
			Type:   s.repos.DB().Dialector.Name(),
		},
	}

	if err := database.Ping(s.repos.DB()); err != nil {
		resp.Status = "degraded"
		resp.Database.Status = "error: " + err.Error()
		return resp
	}

	var err error
	if resp.Database.ArticleCount, err = s.repos.Articles.Count(ctx, repository.ArticleFilter{}); err == nil {
		if resp.Database.CategoryCount, err = s.repos.Categories.Count(ctx); err == nil {
			resp.Database.MediaCount, err = s.repos.Media.Count(ctx)
		}
	}
	if err != nil {
		resp.Status = "degraded"
		resp.Database.Status = "error: " + err.Error()
	}

	if s.store != nil {
		resp.Redis = "connected"
		if err := s.store.Ping(ctx); err != nil {
			resp.Redis = "error: " + err.Error()
			resp.Status = "degraded"
		}
	}
	return resp
}

// Stats 仪表盘统计，启用 Redis 时缓存
func (s *SystemService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	if s.store != nil {
		var cached dto.DashboardStats
		err := s.store.GetJSON(ctx, cache.DashboardStatsKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("读取统计缓存失败", zap.Error(err))
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SetJSON(ctx, cache.DashboardStatsKey, stats, cache.StatsExpiration); err != nil {
			s.log.Warn("写入统计缓存失败", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *SystemService) computeStats(ctx context.Context) (*dto.DashboardStats, error) {
	articles, err := articleStats(ctx, s.repos.Articles, s.now())
	if err != nil {
		return nil, err
	}
	categories, err := s.repos.Categories.Count(ctx)
	if err != nil {
		return nil, err
	}
	media, err := s.repos.Media.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardStats{Articles: *articles, Categories: categories, Media: media}, nil
}

// InvalidateStats 删除统计缓存
func (s *SystemService) InvalidateStats(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, cache.DashboardStatsKey); err != nil {
		s.log.Warn("清除统计缓存失败", zap.Error(err))
	}
}

// 初始分类
var seedCategories = []model.Category{
	{Name: "Technology", Description: "Latest technology news and updates"},
	{Name: "World", Description: "Global news and international affairs"},
	{Name: "Local", Description: "Local community news and events"},
	{Name: "Business", Description: "Business and financial news"},
	{Name: "Sports", Description: "Sports news and updates"},
	{Name: "Entertainment", Description: "Movies, music, and celebrity news"},
}

// 初始文章，Category 对应 seedCategories 中的名称
var seedArticles = []struct {
	Title    string
	Content  string
	Author   string
	Category string
}{
	{
		Title:    "Welcome to Our News Platform",
		Content:  "This is your comprehensive news management system. Create, edit, and manage articles across categories with media upload support.",
		Author:   "Admin",
		Category: "Local",
	},
	{
		Title:    "Technology Trends 2024",
		Content:  "Discover the latest technology trends shaping our future. From AI advancements to sustainable tech solutions, explore innovations with full media integration capabilities.",
		Author:   "Tech Editor",
		Category: "Technology",
	},
	{
		Title:    "Global Economic Update",
		Content:  "Analysis of current global economic conditions and future projections. Understanding market trends and their impact on businesses worldwide.",
		Author:   "Business Analyst",
		Category: "Business",
	},
	{
		Title:    "Community Events Guide",
		Content:  "Stay updated with local community events, festivals, and activities. Media management makes sharing event photos seamless.",
		Author:   "Community Manager",
		Category: "Local",
	},
	{
		Title:    "Sports Championship Results",
		Content:  "The finals have concluded with a spectacular display of athletic prowess. Here are the complete results and highlights from the championship.",
		Author:   "Sports Desk",
		Category: "Sports",
	},
}

// Seed 两张表都为空时写入初始分类与文章
func (s *SystemService) Seed(ctx context.Context) (*dto.SeedResult, error) {
	result := &dto.SeedResult{}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		categories, err := tx.Categories.Count(ctx)
		if err != nil {
			return err
		}
		articles, err := tx.Articles.Count(ctx, repository.ArticleFilter{})
		if err != nil {
			return err
		}
		if categories > 0 || articles > 0 {
			return nil
		}

		ids := make(map[string]uint, len(seedCategories))
		for _, c := range seedCategories {
			c := c
			if err := tx.Categories.Create(ctx, &c); err != nil {
				return err
			}
			ids[c.Name] = c.ID
			result.Categories++
		}

		created := s.now()
		for i, a := range seedArticles {
			categoryID := ids[a.Category]
			article := &model.Article{
				Title:      a.Title,
				Content:    a.Content,
				Author:     a.Author,
				CategoryID: &categoryID,
				CreatedAt:  created.Add(time.Duration(i) * time.Second),
			}
			if err := tx.Articles.Create(ctx, article); err != nil {
				return err
			}
			result.Articles++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Categories > 0 {
		s.InvalidateStats(ctx)
		s.log.Info("初始数据写入完成", zap.Int("categories", result.Categories), zap.Int("articles", result.Articles))
	}
	return result, nil
}
