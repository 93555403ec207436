package service

import (
	"context"

	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/metrics"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"go.uber.org/zap"
)

// idMove 一次主键变更
type idMove struct {
	Old uint
	New uint
}

// buildMoves 由升序ID计算重排映射，只返回需要变更的项
//
// 第 i 个ID（从1开始）映射为 i，新ID不大于旧ID，按升序执行时目标位置总是空闲的。
func buildMoves(ids []uint) []idMove {
	moves := make([]idMove, 0)
	for i, old := range ids {
		next := uint(i + 1)
		if old != next {
			moves = append(moves, idMove{Old: old, New: next})
		}
	}
	return moves
}

// Compactor 将文章、分类主键重排为连续的 1..N
type Compactor struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewCompactor 创建重排服务
func NewCompactor(log *zap.Logger, m *metrics.Metrics) *Compactor {
	return &Compactor{log: log, metrics: m}
}

// CompactArticles 重排文章ID，需在事务内调用
func (c *Compactor) CompactArticles(ctx context.Context, tx *repository.Repositories) (int, error) {
	ids, err := tx.Articles.IDs(ctx)
	if err != nil {
		return 0, err
	}
	moves := buildMoves(ids)
	for _, mv := range moves {
		if err := tx.Articles.Renumber(ctx, mv.Old, mv.New); err != nil {
			return 0, err
		}
	}
	c.observe(model.Article{}.TableName(), len(moves))
	return len(moves), nil
}

// CompactCategories 重排分类ID并同步文章的分类引用，需在事务内调用
//
// 先完整计算映射，再改文章引用，最后改分类主键。
func (c *Compactor) CompactCategories(ctx context.Context, tx *repository.Repositories) (int, error) {
	ids, err := tx.Categories.IDs(ctx)
	if err != nil {
		return 0, err
	}
	moves := buildMoves(ids)

	for _, mv := range moves {
		if _, err := tx.Articles.RemapCategory(ctx, mv.Old, mv.New); err != nil {
			return 0, err
		}
	}
	for _, mv := range moves {
		if err := tx.Categories.Renumber(ctx, mv.Old, mv.New); err != nil {
			return 0, err
		}
	}
	c.observe(model.Category{}.TableName(), len(moves))
	return len(moves), nil
}

// ResetSequences 事务提交后对齐自增计数器，失败只记录日志
func (c *Compactor) ResetSequences(ctx context.Context, repos *repository.Repositories, tables ...string) {
	for _, table := range tables {
		if err := repository.ResetSequence(ctx, repos.DB(), table); err != nil {
			c.log.Warn("重置自增计数器失败", zap.String("table", table), zap.Error(err))
		}
	}
}

// CompactAll 在单个事务内重排分类与文章，用于手动修复
func (c *Compactor) CompactAll(ctx context.Context, repos *repository.Repositories) (*dto.CompactResult, error) {
	result := &dto.CompactResult{}
	err := repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		if result.Categories, err = c.CompactCategories(ctx, tx); err != nil {
			return err
		}
		result.Articles, err = c.CompactArticles(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.ResetSequences(ctx, repos, model.Category{}.TableName(), model.Article{}.TableName())
	c.log.Info("ID重排完成", zap.Int("categories", result.Categories), zap.Int("articles", result.Articles))
	return result, nil
}

func (c *Compactor) observe(table string, moved int) {
	if c.metrics != nil {
		c.metrics.Compactions.WithLabelValues(table).Inc()
	}
	if moved > 0 {
		c.log.Debug("ID重排", zap.String("table", table), zap.Int("moved", moved))
	}
}
