package dto

// CategoryCreateRequest 创建分类请求
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required,max=100"` // 分类名称
	Description string `json:"description" binding:"max=500"`   // 分类描述
}

// CategoryUpdateRequest 更新分类请求
type CategoryUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`  // 分类名称
	Description *string `json:"description" binding:"omitempty,max=500"` // 分类描述
}

// CategoryResponse 分类信息
type CategoryResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ArticleCount int64  `json:"article_count"` // 文章数量
}
