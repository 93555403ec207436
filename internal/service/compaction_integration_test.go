package service

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/database"
	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/metrics"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/nsxzhou1114/news-portal/internal/repository"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 集成测试：在真实 MySQL / PostgreSQL 上验证重排与自增序列重置
//   GO_TEST_INTEGRATION=1 go test ./internal/service -run Integration -v -count=1

type containerDB struct {
	driver string
	image  string
	port   string
	ready  wait.Strategy
	env    map[string]string
}

var integrationDBs = []containerDB{
	{
		driver: "mysql",
		image:  "mysql:8.0",
		port:   "3306/tcp",
		ready:  wait.ForListeningPort("3306/tcp").WithStartupTimeout(2 * time.Minute),
		env:    map[string]string{"MYSQL_ROOT_PASSWORD": "pass", "MYSQL_DATABASE": "news"},
	},
	{
		driver: "postgres",
		image:  "postgres:16-alpine",
		port:   "5432/tcp",
		ready:  wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		env:    map[string]string{"POSTGRES_USER": "root", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "news"},
	},
}

// startDatabase 启动容器并返回建好表的连接
func startDatabase(t *testing.T, target containerDB) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        target.image,
			Env:          target.env,
			ExposedPorts: []string{target.port},
			WaitingFor:   target.ready,
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	endpoint, err := c.Endpoint(ctx, "")
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(endpoint)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{
		Driver:       target.driver,
		Host:         host,
		Port:         port,
		Username:     "root",
		Password:     "pass",
		Database:     "news",
		MaxIdleConns: 2,
		MaxOpenConns: 4,
		LogLevel:     "silent",
		// 端口就绪后数据库可能仍在初始化
		ConnectRetry: 30,
	}
	db, err := database.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, model.InitTables(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestCompactionIntegration(t *testing.T) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	for _, target := range integrationDBs {
		t.Run(target.driver, func(t *testing.T) {
			ctx := context.Background()
			db := startDatabase(t, target)
			repos := repository.New(db)
			log := zap.NewNop()
			compactor := NewCompactor(log, metrics.New(nil))
			system := NewSystemService(repos, nil, log)
			paginator := NewPaginator(config.QueryConfig{DefaultPerPage: 12, MaxPerPage: 100})
			articles := NewArticleService(repos, compactor, system, paginator, log)
			categories := NewCategoryService(repos, compactor, system, paginator, log)

			for _, name := range []string{"Tech", "World", "Sports"} {
				_, err := categories.Create(ctx, &dto.CategoryCreateRequest{Name: name})
				require.NoError(t, err)
			}
			sports := uint(3)
			for i := 0; i < 4; i++ {
				_, err := articles.Create(ctx, &dto.ArticleCreateRequest{Title: "a", Content: "c", CategoryID: &sports})
				require.NoError(t, err)
			}

			require.NoError(t, articles.Delete(ctx, 2))
			require.NoError(t, categories.Delete(ctx, 1))

			ids, err := repos.Articles.IDs(ctx)
			require.NoError(t, err)
			require.Equal(t, []uint{1, 2, 3}, ids)

			cats, err := categories.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, cats, 2)
			require.Equal(t, "Sports", cats[1].Name)
			require.EqualValues(t, 3, cats[1].ArticleCount)

			// 序列已重置，新记录紧接最大ID
			created, err := articles.Create(ctx, &dto.ArticleCreateRequest{Title: "next", Content: "c"})
			require.NoError(t, err)
			require.EqualValues(t, 4, created.ID)

			cat, err := categories.Create(ctx, &dto.CategoryCreateRequest{Name: "Local"})
			require.NoError(t, err)
			require.EqualValues(t, 3, cat.ID)
		})
	}
}
