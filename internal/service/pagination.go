package service

import (
	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/errs"
)

// Paginator 解析分页参数
type Paginator struct {
	DefaultPerPage int
	MaxPerPage     int
}

// NewPaginator 由配置创建
func NewPaginator(cfg config.QueryConfig) Paginator {
	return Paginator{DefaultPerPage: cfg.DefaultPerPage, MaxPerPage: cfg.MaxPerPage}
}

// Resolve 补全缺省值并校验，超过上限的 per_page 截断为上限
func (p Paginator) Resolve(q dto.PageQuery) (page, perPage int, err error) {
	page, perPage = 1, p.DefaultPerPage
	if perPage <= 0 {
		perPage = 12
	}
	if q.Page != nil {
		page = *q.Page
	}
	if q.PerPage != nil {
		perPage = *q.PerPage
	}
	if page <= 0 {
		return 0, 0, errs.Invalid("page", "必须大于0")
	}
	if perPage <= 0 {
		return 0, 0, errs.Invalid("per_page", "必须大于0")
	}
	if p.MaxPerPage > 0 && perPage > p.MaxPerPage {
		perPage = p.MaxPerPage
	}
	return page, perPage, nil
}
