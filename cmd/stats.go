package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// statsCmd 统计命令
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "统计信息命令",
	Long:  `显示系统统计信息，包括文章、分类、媒体数量以及数据库状态`,
	Run: func(cmd *cobra.Command, args []string) {
		runOrExit(showSystemStats)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// showSystemStats 显示系统统计信息
func showSystemStats(ctx context.Context) error {
	deps, a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	health := a.System.Health(ctx)
	fmt.Println("📊 系统统计信息")
	fmt.Println("==================")
	fmt.Printf("数据库: %s (%s)\n", health.Database.Type, health.Database.Status)
	if health.Redis != "" {
		fmt.Printf("Redis: %s\n", health.Redis)
	}

	stats, err := a.System.Stats(ctx)
	if err != nil {
		return fmt.Errorf("获取统计失败: %w", err)
	}
	fmt.Printf("文章总数: %d\n", stats.Articles.Total)
	fmt.Printf("今日新增: %d\n", stats.Articles.Today)
	fmt.Printf("近七天新增: %d\n", stats.Articles.ThisWeek)
	fmt.Printf("分类数量: %d\n", stats.Categories)
	fmt.Printf("媒体文件: %d\n", stats.Media)
	return nil
}
