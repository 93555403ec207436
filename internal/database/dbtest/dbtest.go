// Package dbtest 为测试提供迁移完成的内存 sqlite 数据库。
package dbtest

import (
	"testing"

	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New 打开内存数据库并建表，测试结束自动关闭
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库按连接隔离，只保留一个连接
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, model.InitTables(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
