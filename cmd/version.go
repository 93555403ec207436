package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/spf13/cobra"
)

var (
	// 这些变量在编译时通过 -ldflags 设置
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// versionCmd 版本信息命令
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Long:  `显示构建信息以及当前配置下的数据库、存储与新闻接口设置`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠️ 配置不可用: %v\n", err)
		}
		writeVersion(os.Stdout, cfg)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// writeVersion 输出版本信息，cfg 为 nil 时只输出构建信息
func writeVersion(w io.Writer, cfg *config.Config) {
	name := "news-portal"
	if cfg != nil && cfg.App.Name != "" {
		name = cfg.App.Name
	}
	fmt.Fprintf(w, "🚀 %s 新闻门户API服务\n", name)
	fmt.Fprintf(w, "版本: %s (%s)\n", Version, GitCommit)
	fmt.Fprintf(w, "构建时间: %s\n", BuildTime)
	fmt.Fprintf(w, "运行环境: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if cfg == nil {
		return
	}

	redis := "未启用"
	if cfg.Redis.Enabled {
		redis = cfg.Redis.Addr()
	}
	fmt.Fprintf(w, "数据库驱动: %s\n", cfg.Database.Driver)
	fmt.Fprintf(w, "Redis: %s\n", redis)
	fmt.Fprintf(w, "媒体存储: %s (允许: %s)\n", cfg.Media.Storage, strings.Join(cfg.Media.AllowedExtensions, ","))
	fmt.Fprintf(w, "新闻接口: %s 缓存 头条=%s 搜索=%s 来源=%s\n",
		cfg.News.BaseURL, cfg.News.TTL.Headlines, cfg.News.TTL.Search, cfg.News.TTL.Sources)
}
