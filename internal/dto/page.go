package dto

import "math"

// PageQuery 分页查询参数，两者都缺省时返回不分页的完整列表
type PageQuery struct {
	Page    *int `form:"page"`     // 页码，从1开始
	PerPage *int `form:"per_page"` // 每页条数
}

// Paginated 是否请求了分页
func (q PageQuery) Paginated() bool {
	return q.Page != nil || q.PerPage != nil
}

// Page 分页结果
type Page[T any] struct {
	Items       []T   `json:"items"`        // 当前页数据
	Total       int64 `json:"total"`        // 总记录数
	Pages       int   `json:"pages"`        // 总页数
	CurrentPage int   `json:"current_page"` // 当前页码
	PerPage     int   `json:"per_page"`     // 每页条数
	HasNext     bool  `json:"has_next"`     // 是否有下一页
	HasPrev     bool  `json:"has_prev"`     // 是否有上一页
}

// NewPage 根据总数计算分页信息
func NewPage[T any](items []T, total int64, page, perPage int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &Page[T]{
		Items:       items,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
		PerPage:     perPage,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

// Offset 计算偏移量，乘积溢出时返回 math.MaxInt
func Offset(page, perPage int) int {
	if page <= 1 || perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}
