// Package repository 封装 articles、categories、media 三张表的持久化操作。
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nsxzhou1114/news-portal/internal/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repositories 共享同一个 gorm 连接的仓储集合
type Repositories struct {
	db         *gorm.DB
	Articles   *ArticleRepo
	Categories *CategoryRepo
	Media      *MediaRepo
}

// New 创建仓储集合
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		Articles:   NewArticleRepo(db),
		Categories: NewCategoryRepo(db),
		Media:      NewMediaRepo(db),
	}
}

// DB 返回底层连接
func (r *Repositories) DB() *gorm.DB {
	return r.db
}

// Transaction 在单个事务内执行 fn，fn 返回错误时整体回滚
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrValidation) {
			return err
		}
		return errs.Storage("transaction", err)
	}
	return nil
}

// getByID 按主键查询，不存在时返回 errs.ErrNotFound
func getByID[T any](ctx context.Context, db *gorm.DB, entity string, id uint) (*T, error) {
	var out T
	err := db.WithContext(ctx).First(&out, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound(entity, id)
		}
		return nil, errs.Storage(entity+".get", err)
	}
	return &out, nil
}

// deleteByID 按主键删除，未命中时返回 errs.ErrNotFound
func deleteByID[T any](ctx context.Context, db *gorm.DB, entity string, id uint) error {
	var zero T
	res := db.WithContext(ctx).Delete(&zero, id)
	if res.Error != nil {
		return errs.Storage(entity+".delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound(entity, id)
	}
	return nil
}

// idsQuery 升序读取主键，MySQL/PostgreSQL 下加行锁，使并发重排串行执行
func idsQuery(db *gorm.DB, table string) *gorm.DB {
	q := db.Table(table).Order("id ASC")
	if db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return q
}

// orderedIDs 返回表内全部主键，升序
func orderedIDs(ctx context.Context, db *gorm.DB, table string) ([]uint, error) {
	var ids []uint
	if err := idsQuery(db.WithContext(ctx), table).Pluck("id", &ids).Error; err != nil {
		return nil, errs.Storage(table+".ids", err)
	}
	return ids, nil
}

// renumber 修改单行主键
func renumber(ctx context.Context, db *gorm.DB, table string, oldID, newID uint) error {
	res := db.WithContext(ctx).Exec(fmt.Sprintf("UPDATE %s SET id = ? WHERE id = ?", table), newID, oldID)
	if res.Error != nil {
		return errs.Storage(table+".renumber", res.Error)
	}
	if res.RowsAffected != 1 {
		return errs.Storage(table+".renumber", fmt.Errorf("id %d -> %d affected %d rows", oldID, newID, res.RowsAffected))
	}
	return nil
}

// ResetSequence 将自增计数器对齐到当前最大ID
//
// MySQL 的 ALTER TABLE 会隐式提交事务，调用方需在事务提交后执行。
func ResetSequence(ctx context.Context, db *gorm.DB, table string) error {
	db = db.WithContext(ctx)
	var err error
	switch db.Dialector.Name() {
	case "mysql":
		var maxID uint
		if err = db.Table(table).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err == nil {
			err = db.Exec(fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = %d", table, maxID+1)).Error
		}
	case "postgres":
		err = db.Exec(fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM %[1]s",
			table)).Error
	case "sqlite":
		var n int64
		if err = db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").Scan(&n).Error; err == nil && n > 0 {
			err = db.Exec(fmt.Sprintf(
				"UPDATE sqlite_sequence SET seq = (SELECT COALESCE(MAX(id), 0) FROM %[1]s) WHERE name = '%[1]s'", table)).Error
		}
	}
	return errs.Storage(table+".reset_sequence", err)
}
