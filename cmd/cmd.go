package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/app"
	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/database"
	"github.com/nsxzhou1114/news-portal/internal/logger"
	"github.com/nsxzhou1114/news-portal/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "news-portal",
	Short: "新闻门户API服务",
	Long:  `新闻内容管理服务，支持文章、分类、媒体管理以及第三方新闻聚合`,
}

// serveCmd 启动服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	Long:  `启动新闻门户的HTTP服务器`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(); err != nil {
			fmt.Printf("服务启动失败: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	// 添加全局标志
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "配置文件路径")

	// 添加子命令
	rootCmd.AddCommand(serveCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// runtimeDeps 命令共用的基础依赖
type runtimeDeps struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	redis *redis.Client
}

// close 释放连接
func (d *runtimeDeps) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if sqlDB, err := d.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = d.log.Sync()
}

// initializeSystem 初始化配置、日志、数据库与Redis
func initializeSystem(ctx context.Context) (*runtimeDeps, error) {
	// 初始化配置
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("配置初始化失败: %w", err)
	}

	// 初始化日志
	logger.Init(&cfg.Log)
	log := logger.GetLogger()

	// 初始化数据库
	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	// 初始化数据库表
	if err := model.InitTables(db); err != nil {
		return nil, fmt.Errorf("初始化数据库表失败: %w", err)
	}

	// Redis 仅用于统计缓存，连接失败时降级运行
	rdb, err := database.OpenRedis(ctx, &cfg.Redis, log)
	if err != nil {
		log.Warn("Redis不可用，统计不缓存", zap.Error(err))
		rdb = nil
	}

	return &runtimeDeps{cfg: cfg, log: log, db: db, redis: rdb}, nil
}

// buildApp 初始化基础依赖并组装应用
func buildApp(ctx context.Context) (*runtimeDeps, *app.App, error) {
	deps, err := initializeSystem(ctx)
	if err != nil {
		return nil, nil, err
	}
	gin.SetMode(deps.cfg.App.Mode)
	a, err := app.New(deps.cfg, deps.db, deps.log, app.Options{Redis: deps.redis})
	if err != nil {
		deps.close()
		return nil, nil, err
	}
	return deps, a, nil
}

// startServer 启动HTTP服务
func startServer() error {
	deps, a, err := buildApp(context.Background())
	if err != nil {
		return err
	}
	defer deps.close()
	log := deps.log

	// 配置文件变更时热更新日志级别
	config.Watch(func(level string) {
		logger.SetLevel(level)
		log.Info("日志级别已更新", zap.String("level", level))
	})

	if deps.cfg.App.SeedOnStart {
		if _, err := a.System.Seed(context.Background()); err != nil {
			log.Warn("写入初始数据失败", zap.Error(err))
		}
	}

	// 启动HTTP服务
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.cfg.App.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("服务已启动", zap.String("addr", srv.Addr))

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("HTTP服务启动失败: %w", err)
	}
	log.Info("关闭服务...")

	// 设置关闭超时
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务关闭异常: %w", err)
	}

	log.Info("服务已关闭")
	return nil
}
