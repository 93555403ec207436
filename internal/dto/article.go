package dto

import "time"

// ArticleCreateRequest 创建文章请求
type ArticleCreateRequest struct {
	Title      string `json:"title" binding:"required,max=255"`      // 文章标题
	Content    string `json:"content" binding:"required"`            // 文章内容
	Author     string `json:"author" binding:"max=100"`              // 作者
	CategoryID *uint  `json:"category_id"`                           // 分类ID
	ImageURL   string `json:"image_url" binding:"omitempty,max=500"` // 封面图片
}

// ArticleUpdateRequest 更新文章请求，仅更新非空字段
type ArticleUpdateRequest struct {
	Title      *string `json:"title" binding:"omitempty,max=255"`     // 文章标题
	Content    *string `json:"content"`                               // 文章内容
	Author     *string `json:"author" binding:"omitempty,max=100"`    // 作者
	CategoryID *uint   `json:"category_id"`                           // 分类ID，0 表示取消分类
	ImageURL   *string `json:"image_url" binding:"omitempty,max=500"` // 封面图片
}

// ArticleQueryRequest 文章列表查询
type ArticleQueryRequest struct {
	PageQuery
	CategoryID *uint  `form:"category_id"` // 分类ID
	Keyword    string `form:"q"`           // 关键词
}

// ArticleResponse 文章详情
type ArticleResponse struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Content      string     `json:"content"`
	ContentHTML  string     `json:"content_html"` // 渲染后的HTML
	CategoryID   *uint      `json:"category_id"`
	CategoryName string     `json:"category_name"` // 分类名称
	ImageURL     string     `json:"image_url"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// ArticleStats 文章数量统计
type ArticleStats struct {
	Total    int64 `json:"total"`
	Today    int64 `json:"today"`
	ThisWeek int64 `json:"this_week"`
}
