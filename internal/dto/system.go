package dto

// HealthResponse 健康检查结果
type HealthResponse struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Redis    string         `json:"redis,omitempty"`
}

// DatabaseHealth 数据库状态
type DatabaseHealth struct {
	Status        string `json:"status"`
	Type          string `json:"type"`
	ArticleCount  int64  `json:"article_count"`
	CategoryCount int64  `json:"category_count"`
	MediaCount    int64  `json:"media_count"`
}

// DashboardStats 仪表盘统计
type DashboardStats struct {
	Articles   ArticleStats `json:"articles"`
	Categories int64        `json:"categories"`
	Media      int64        `json:"media"`
}

// SeedResult 初始数据写入结果
type SeedResult struct {
	Categories int `json:"categories"`
	Articles   int `json:"articles"`
}

// CompactResult ID 重排结果
type CompactResult struct {
	Articles   int `json:"articles"`
	Categories int `json:"categories"`
}
