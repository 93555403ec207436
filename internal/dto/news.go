package dto

// NewsHeadlinesRequest 头条查询参数
type NewsHeadlinesRequest struct {
	Country  string `form:"country"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	NoCache  string `form:"no_cache"`
}

// NewsSearchRequest 新闻搜索参数
type NewsSearchRequest struct {
	Query    string `form:"q"`
	From     string `form:"from"`
	To       string `form:"to"`
	SortBy   string `form:"sortBy"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	NoCache  string `form:"no_cache"`
}

// NewsSourcesRequest 新闻源查询参数
type NewsSourcesRequest struct {
	Country  string `form:"country"`
	Category string `form:"category"`
	Language string `form:"language"`
	NoCache  string `form:"no_cache"`
}

// NewsItem 归一化后的新闻条目
type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
	SourceName  string `json:"source_name"`
	PublishedAt string `json:"published_at"`
	Author      string `json:"author"`
	Content     string `json:"content"`
}

// NewsList 新闻列表
type NewsList struct {
	TotalResults int        `json:"total_results"`
	Articles     []NewsItem `json:"articles"`
	NextPage     string     `json:"next_page,omitempty"`
}

// NewsSource 新闻源
type NewsSource struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Category    []string `json:"category"`
	Language    []string `json:"language"`
	Country     []string `json:"country"`
}

// NewsSourceList 新闻源列表
type NewsSourceList struct {
	Sources []NewsSource `json:"sources"`
}
