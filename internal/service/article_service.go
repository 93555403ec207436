package service

import (
	"context"
	"strings"
	"time"

	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"github.com/nsxzhou1114/news-portal/pkg/utils"
	"go.uber.org/zap"
)

// ArticleService 文章服务
type ArticleService struct {
	repos     *repository.Repositories
	compactor *Compactor
	stats     StatsInvalidator
	paginator Paginator
	log       *zap.Logger
	now       func() time.Time
}

// NewArticleService 创建文章服务实例
func NewArticleService(repos *repository.Repositories, compactor *Compactor, stats StatsInvalidator, paginator Paginator, log *zap.Logger) *ArticleService {
	return &ArticleService{
		repos:     repos,
		compactor: compactor,
		stats:     stats,
		paginator: paginator,
		log:       log,
		now:       time.Now,
	}
}

// Create 创建文章
func (s *ArticleService) Create(ctx context.Context, req *dto.ArticleCreateRequest) (*dto.ArticleResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errs.Invalid("title", "不能为空")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errs.Invalid("content", "不能为空")
	}
	categoryID, err := s.checkCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	article := &model.Article{
		Title:      title,
		Author:     strings.TrimSpace(req.Author),
		Content:    req.Content,
		CategoryID: categoryID,
		ImageURL:   strings.TrimSpace(req.ImageURL),
		CreatedAt:  s.now(),
	}
	if err := s.repos.Articles.Create(ctx, article); err != nil {
		return nil, err
	}
	s.stats.InvalidateStats(ctx)
	s.log.Info("创建文章", zap.Uint("id", article.ID), zap.String("title", article.Title))
	return s.toResponse(ctx, article)
}

// Get 获取文章详情
func (s *ArticleService) Get(ctx context.Context, id uint) (*dto.ArticleResponse, error) {
	article, err := s.repos.Articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, article)
}

// Update 部分更新文章
func (s *ArticleService) Update(ctx context.Context, id uint, req *dto.ArticleUpdateRequest) (*dto.ArticleResponse, error) {
	fields := make(map[string]any)
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errs.Invalid("title", "不能为空")
		}
		fields["title"] = title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, errs.Invalid("content", "不能为空")
		}
		fields["content"] = *req.Content
	}
	if req.Author != nil {
		fields["author"] = strings.TrimSpace(*req.Author)
	}
	if req.ImageURL != nil {
		fields["image_url"] = strings.TrimSpace(*req.ImageURL)
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			fields["category_id"] = nil
		} else {
			categoryID, err := s.checkCategory(ctx, req.CategoryID)
			if err != nil {
				return nil, err
			}
			fields["category_id"] = *categoryID
		}
	}
	if len(fields) > 0 {
		fields["updated_at"] = s.now()
	}

	article, err := s.repos.Articles.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, article)
}

// Delete 删除文章并重排ID
func (s *ArticleService) Delete(ctx context.Context, id uint) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Articles.Delete(ctx, id); err != nil {
			return err
		}
		_, err := s.compactor.CompactArticles(ctx, tx)
		return err
	})
	if err != nil {
		return err
	}
	s.compactor.ResetSequences(ctx, s.repos, model.Article{}.TableName())
	s.stats.InvalidateStats(ctx)
	s.log.Info("删除文章", zap.Uint("id", id))
	return nil
}

// ListAll 返回不分页的完整列表，按创建时间倒序
func (s *ArticleService) ListAll(ctx context.Context, filter repository.ArticleFilter) ([]dto.ArticleResponse, error) {
	articles, err := s.repos.Articles.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, articles)
}

// ListPage 分页列表，页码超出范围时返回空列表
func (s *ArticleService) ListPage(ctx context.Context, filter repository.ArticleFilter, q dto.PageQuery) (*dto.Page[dto.ArticleResponse], error) {
	page, perPage, err := s.paginator.Resolve(q)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.Articles.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	var articles []model.Article
	if offset := dto.Offset(page, perPage); int64(offset) < total {
		if articles, err = s.repos.Articles.ListPage(ctx, filter, offset, perPage); err != nil {
			return nil, err
		}
	}
	items, err := s.toResponses(ctx, articles)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, total, page, perPage), nil
}

// ListByCategory 按分类列出文章，categoryID 为 nil 时不过滤
//
// 未传分页参数时返回 []dto.ArticleResponse，否则返回 *dto.Page[dto.ArticleResponse]。
func (s *ArticleService) ListByCategory(ctx context.Context, categoryID *uint, q dto.PageQuery) (any, error) {
	filter := repository.ArticleFilter{CategoryID: categoryID}
	if !q.Paginated() {
		return s.ListAll(ctx, filter)
	}
	return s.ListPage(ctx, filter, q)
}

// ListByIDs 批量获取文章
func (s *ArticleService) ListByIDs(ctx context.Context, ids []uint) ([]dto.ArticleResponse, error) {
	articles, err := s.repos.Articles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, articles)
}

// CountTotal 文章总数
func (s *ArticleService) CountTotal(ctx context.Context) (int64, error) {
	return s.repos.Articles.Count(ctx, repository.ArticleFilter{})
}

// CountCreatedOn 统计某一自然日创建的文章数
func (s *ArticleService) CountCreatedOn(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.repos.Articles.CountCreatedBetween(ctx, start, start.AddDate(0, 0, 1))
}

// CountCreatedWithin 统计最近 d 时间内创建的文章数
func (s *ArticleService) CountCreatedWithin(ctx context.Context, d time.Duration) (int64, error) {
	return s.repos.Articles.CountCreatedSince(ctx, s.now().Add(-d))
}

// Stats 文章总数、今日、近七天数量
func (s *ArticleService) Stats(ctx context.Context) (*dto.ArticleStats, error) {
	return articleStats(ctx, s.repos.Articles, s.now())
}

func articleStats(ctx context.Context, repo *repository.ArticleRepo, now time.Time) (*dto.ArticleStats, error) {
	total, err := repo.Count(ctx, repository.ArticleFilter{})
	if err != nil {
		return nil, err
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := repo.CountCreatedBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	week, err := repo.CountCreatedSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	return &dto.ArticleStats{Total: total, Today: today, ThisWeek: week}, nil
}

// checkCategory 校验分类存在，0 视为无分类
func (s *ArticleService) checkCategory(ctx context.Context, id *uint) (*uint, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}
	ok, err := s.repos.Categories.Exists(ctx, *id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Invalid("category_id", "分类不存在")
	}
	v := *id
	return &v, nil
}

func (s *ArticleService) toResponse(ctx context.Context, article *model.Article) (*dto.ArticleResponse, error) {
	items, err := s.toResponses(ctx, []model.Article{*article})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// toResponses 批量查询分类名称并渲染正文
func (s *ArticleService) toResponses(ctx context.Context, articles []model.Article) ([]dto.ArticleResponse, error) {
	ids := make([]uint, 0)
	seen := make(map[uint]struct{})
	for _, a := range articles {
		if a.CategoryID == nil {
			continue
		}
		if _, ok := seen[*a.CategoryID]; !ok {
			seen[*a.CategoryID] = struct{}{}
			ids = append(ids, *a.CategoryID)
		}
	}
	categories, err := s.repos.Categories.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	out := make([]dto.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		resp := dto.ArticleResponse{
			ID:         a.ID,
			Title:      a.Title,
			Author:     a.Author,
			Content:    a.Content,
			CategoryID: a.CategoryID,
			ImageURL:   a.ImageURL,
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
		}
		if a.CategoryID != nil {
			resp.CategoryName = names[*a.CategoryID]
		}
		if html, err := utils.ConvertMarkdownToHTML(a.Content); err == nil {
			resp.ContentHTML = html
		}
		out = append(out, resp)
	}
	return out, nil
}
