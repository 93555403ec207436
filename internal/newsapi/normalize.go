package newsapi

import (
	"strings"
	"time"

	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/pkg/utils"
)

// 上游时间格式，UTC
const pubDateLayout = "2006-01-02 15:04:05"

// rawArticle 上游新闻条目
type rawArticle struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	PubDate     string   `json:"pubDate"`
	ImageURL    string   `json:"image_url"`
	SourceID    string   `json:"source_id"`
	SourceName  string   `json:"source_name"`
	Creator     []string `json:"creator"`
}

// rawSource 上游新闻源
type rawSource struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Category    []string `json:"category"`
	Language    []string `json:"language"`
	Country     []string `json:"country"`
}

func normalizeArticles(raw []rawArticle) []dto.NewsItem {
	items := make([]dto.NewsItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, normalizeArticle(r))
	}
	return items
}

// normalizeArticle 转换为统一字段，描述转纯文本，HTML 正文转 Markdown
func normalizeArticle(r rawArticle) dto.NewsItem {
	source := r.SourceName
	if source == "" {
		source = r.SourceID
	}
	if source == "" {
		source = "Unknown"
	}

	content := r.Content
	if strings.Contains(content, "<") {
		if converted, err := utils.ConvertHTMLToMarkdown(content); err == nil {
			content = converted
		}
	}

	return dto.NewsItem{
		Title:       strings.TrimSpace(r.Title),
		Description: utils.HTMLToText(r.Description),
		URL:         r.Link,
		ImageURL:    r.ImageURL,
		SourceName:  source,
		PublishedAt: normalizeTime(r.PubDate),
		Author:      strings.Join(r.Creator, ", "),
		Content:     strings.TrimSpace(content),
	}
}

// normalizeTime 转为 RFC3339，无法解析时原样返回
func normalizeTime(s string) string {
	t, err := time.Parse(pubDateLayout, s)
	if err != nil {
		return s
	}
	return t.UTC().Format(time.RFC3339)
}

func normalizeSources(raw []rawSource) []dto.NewsSource {
	sources := make([]dto.NewsSource, 0, len(raw))
	for _, r := range raw {
		sources = append(sources, dto.NewsSource{
			ID:          r.ID,
			Name:        r.Name,
			URL:         r.URL,
			Description: utils.HTMLToText(r.Description),
			Category:    r.Category,
			Language:    r.Language,
			Country:     r.Country,
		})
	}
	return sources
}
