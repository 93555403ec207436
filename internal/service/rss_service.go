package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"github.com/nsxzhou1114/news-portal/pkg/utils"
	"go.uber.org/zap"
)

const (
	defaultRSSLimit = 20
	maxRSSLimit     = 100
	// 摘要最大字符数
	rssSummaryLength = 200
)

// RSSService RSS服务
type RSSService struct {
	repos *repository.Repositories
	title string
	log   *zap.Logger
	now   func() time.Time
}

// NewRSSService 创建RSS服务实例，title 为频道名称
func NewRSSService(repos *repository.Repositories, title string, log *zap.Logger) *RSSService {
	if title == "" {
		title = "News Portal"
	}
	return &RSSService{repos: repos, title: title, log: log, now: time.Now}
}

// Feed 生成最新文章的 RSS 文档，可按分类筛选
func (s *RSSService) Feed(ctx context.Context, query *dto.RSSQuery, baseURL string) ([]byte, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultRSSLimit
	}
	if limit > maxRSSLimit {
		limit = maxRSSLimit
	}

	channel := dto.RSSChannel{
		Title:         s.title,
		Link:          baseURL,
		Description:   "最新新闻文章",
		Language:      "zh-CN",
		LastBuildDate: s.now().Format(time.RFC1123Z),
		Generator:     "news-portal",
	}

	filter := repository.ArticleFilter{}
	categoryNames := map[uint]string{}
	if query.CategoryID != nil && *query.CategoryID > 0 {
		category, err := s.repos.Categories.GetByID(ctx, *query.CategoryID)
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &category.ID
		categoryNames[category.ID] = category.Name
		channel.Title = fmt.Sprintf("%s - %s", s.title, category.Name)
		if category.Description != "" {
			channel.Description = category.Description
		}
	} else {
		categories, err := s.repos.Categories.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range categories {
			categoryNames[c.ID] = c.Name
		}
	}

	articles, err := s.repos.Articles.ListPage(ctx, filter, 0, limit)
	if err != nil {
		return nil, err
	}
	channel.Items = make([]dto.RSSItem, 0, len(articles))
	for i := range articles {
		channel.Items = append(channel.Items, s.buildItem(&articles[i], categoryNames, baseURL))
	}

	data, err := xml.MarshalIndent(&dto.RSSFeed{Version: "2.0", Channel: channel}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("生成XML失败: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// buildItem 构建RSS文章项
func (s *RSSService) buildItem(article *model.Article, categoryNames map[uint]string, baseURL string) dto.RSSItem {
	link := fmt.Sprintf("%s/api/articles/%d", baseURL, article.ID)
	item := dto.RSSItem{
		Title:       article.Title,
		Link:        link,
		Description: s.summary(article.Content),
		Author:      article.Author,
		GUID:        link,
		PubDate:     article.CreatedAt.Format(time.RFC1123Z),
	}
	if article.CategoryID != nil {
		item.Category = categoryNames[*article.CategoryID]
	}
	if article.ImageURL != "" {
		item.Enclosure = &dto.RSSEnclosure{
			URL:  absoluteURL(article.ImageURL, baseURL),
			Type: imageType(article.ImageURL),
		}
	}
	return item
}

// summary 渲染后取纯文本并截断
func (s *RSSService) summary(content string) string {
	rendered, err := utils.ConvertMarkdownToHTML(content)
	if err != nil {
		s.log.Debug("渲染摘要失败", zap.Error(err))
		rendered = content
	}
	text := utils.HTMLToText(rendered)
	if utf8.RuneCountInString(text) <= rssSummaryLength {
		return text
	}
	return string([]rune(text)[:rssSummaryLength]) + "..."
}

// absoluteURL 相对路径补全为完整地址
func absoluteURL(p, baseURL string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if strings.HasPrefix(p, "/") {
		return baseURL + p
	}
	return baseURL + "/" + p
}

// imageType 根据扩展名推断类型，未知时按 jpeg 处理
func imageType(p string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(p))); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
