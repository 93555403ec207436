package service

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func parseFeed(t *testing.T, data []byte) dto.RSSFeed {
	t.Helper()
	require.True(t, strings.HasPrefix(string(data), xml.Header))
	var feed dto.RSSFeed
	require.NoError(t, xml.Unmarshal(data, &feed))
	return feed
}

func TestRSSService_LatestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	catID := env.createCategory(t, "Tech")
	env.createArticles(t, 3, "tech", &catID)
	env.createArticles(t, 2, "plain", nil)

	svc := NewRSSService(env.repos, "Daily", zap.NewNop())
	data, err := svc.Feed(ctx, &dto.RSSQuery{Limit: 4}, "https://news.example.com")
	require.NoError(t, err)

	feed := parseFeed(t, data)
	require.Equal(t, "2.0", feed.Version)
	require.Equal(t, "Daily", feed.Channel.Title)
	require.Len(t, feed.Channel.Items, 4)

	// 创建时间相同的按ID倒序
	require.Equal(t, "tech-02", feed.Channel.Items[0].Title)
	require.Equal(t, "Tech", feed.Channel.Items[0].Category)
	plain := feed.Channel.Items[1]
	require.Equal(t, "plain-01", plain.Title)
	require.Equal(t, "https://news.example.com/api/articles/5", plain.Link)
	require.Equal(t, plain.Link, plain.GUID)
	require.Empty(t, plain.Category)
}

func TestRSSService_CategoryFilter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tech := env.createCategory(t, "Tech")
	world := env.createCategory(t, "World")
	env.createArticles(t, 2, "tech", &tech)
	env.createArticles(t, 1, "world", &world)

	svc := NewRSSService(env.repos, "Daily", zap.NewNop())
	data, err := svc.Feed(ctx, &dto.RSSQuery{CategoryID: &world}, "http://localhost")
	require.NoError(t, err)

	feed := parseFeed(t, data)
	require.Equal(t, "Daily - World", feed.Channel.Title)
	require.Len(t, feed.Channel.Items, 1)
	require.Equal(t, "World", feed.Channel.Items[0].Category)

	missing := uint(99)
	_, err = svc.Feed(ctx, &dto.RSSQuery{CategoryID: &missing}, "http://localhost")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRSSService_SummaryAndEnclosure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.articles.Create(ctx, &dto.ArticleCreateRequest{
		Title:    "Markdown <story>",
		Content:  "# Heading\n\n" + strings.Repeat("word ", 100),
		Author:   "Desk",
		ImageURL: "/uploads/cover.png",
	})
	require.NoError(t, err)

	svc := NewRSSService(env.repos, "", zap.NewNop())
	data, err := svc.Feed(ctx, &dto.RSSQuery{}, "http://localhost:8080")
	require.NoError(t, err)
	require.Contains(t, string(data), "Markdown &lt;story&gt;")

	feed := parseFeed(t, data)
	require.Equal(t, "News Portal", feed.Channel.Title)
	item := feed.Channel.Items[0]
	require.True(t, strings.HasPrefix(item.Description, "Heading word"))
	require.True(t, strings.HasSuffix(item.Description, "..."))
	require.NotContains(t, item.Description, "<h1")
	require.Equal(t, "Desk", item.Author)
	require.NotNil(t, item.Enclosure)
	require.Equal(t, "http://localhost:8080/uploads/cover.png", item.Enclosure.URL)
	require.Equal(t, "image/png", item.Enclosure.Type)
}
