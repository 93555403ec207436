// Package newsapi 第三方新闻接口客户端，返回归一化后的新闻数据。
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"go.uber.org/zap"
)

// 上游接口路径
const (
	pathLatest  = "/latest"
	pathSearch  = "/news"
	pathSources = "/sources"

	// 响应体上限 10MB
	maxBodySize = 10 << 20
)

// 本地参数名到上游参数名的映射，未列出的参数不转发
var paramNames = map[string]string{
	"country":  "country",
	"category": "category",
	"language": "language",
	"q":        "q",
	"from":     "from_date",
	"to":       "to_date",
	"pageSize": "size",
	"page":     "page",
}

// Client 新闻接口客户端
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *zap.Logger
}

// NewClient 创建客户端，超时取自配置
func NewClient(cfg *config.NewsConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		log:        log,
	}
}

// envelope 上游通用响应结构
type envelope struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Results      json.RawMessage `json:"results"`
	NextPage     string          `json:"nextPage"`
	Message      string          `json:"message"`
}

// upstreamMessage 上游错误信息，status 为 error 时位于 results 中
type upstreamMessage struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Latest 获取头条新闻
func (c *Client) Latest(ctx context.Context, params map[string]string) (*dto.NewsList, error) {
	return c.articles(ctx, "headlines", pathLatest, params)
}

// Search 按关键词搜索新闻
func (c *Client) Search(ctx context.Context, params map[string]string) (*dto.NewsList, error) {
	return c.articles(ctx, "search", pathSearch, params)
}

// Sources 获取新闻源列表
func (c *Client) Sources(ctx context.Context, params map[string]string) (*dto.NewsSourceList, error) {
	env, err := c.get(ctx, "sources", pathSources, params)
	if err != nil {
		return nil, err
	}

	var raw []rawSource
	if len(env.Results) > 0 && string(env.Results) != "null" {
		if err := json.Unmarshal(env.Results, &raw); err != nil {
			return nil, &errs.UpstreamError{Endpoint: "sources", Message: "响应格式错误", Err: err}
		}
	}
	return &dto.NewsSourceList{Sources: normalizeSources(raw)}, nil
}

func (c *Client) articles(ctx context.Context, endpoint, path string, params map[string]string) (*dto.NewsList, error) {
	env, err := c.get(ctx, endpoint, path, params)
	if err != nil {
		return nil, err
	}

	var raw []rawArticle
	if len(env.Results) > 0 && string(env.Results) != "null" {
		if err := json.Unmarshal(env.Results, &raw); err != nil {
			return nil, &errs.UpstreamError{Endpoint: endpoint, Message: "响应格式错误", Err: err}
		}
	}
	return &dto.NewsList{
		TotalResults: env.TotalResults,
		Articles:     normalizeArticles(raw),
		NextPage:     env.NextPage,
	}, nil
}

// get 发送请求并校验状态，任何失败都返回 *errs.UpstreamError
func (c *Client) get(ctx context.Context, endpoint, path string, params map[string]string) (*envelope, error) {
	reqURL := c.baseURL + path + "?" + c.query(params).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &errs.UpstreamError{Endpoint: endpoint, Message: "创建请求失败", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("新闻接口请求失败", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, &errs.UpstreamError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &errs.UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "读取响应失败", Err: err}
	}

	c.log.Debug("新闻接口响应",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("cost", time.Since(start)),
	)

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &errs.UpstreamError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    env.errorMessage(body),
		}
	}
	if decodeErr != nil {
		return nil, &errs.UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "响应格式错误", Err: decodeErr}
	}
	if env.Status != "success" {
		return nil, &errs.UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: env.errorMessage(body)}
	}
	return &env, nil
}

// query 组装上游查询参数
func (c *Client) query(params map[string]string) url.Values {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	for k, v := range params {
		name, ok := paramNames[k]
		if !ok || v == "" {
			continue
		}
		// 上游分页使用游标，第一页不传
		if k == "page" && v == "1" {
			continue
		}
		q.Set(name, v)
	}
	return q
}

// errorMessage 提取上游错误描述
func (e *envelope) errorMessage(body []byte) string {
	if e.Message != "" {
		return e.Message
	}
	var m upstreamMessage
	if len(e.Results) > 0 && json.Unmarshal(e.Results, &m) == nil && m.Message != "" {
		return m.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		return "empty response"
	}
	return fmt.Sprintf("unexpected response: %s", text)
}
