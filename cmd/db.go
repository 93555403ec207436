package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// databaseCmd 数据库管理命令
var databaseCmd = &cobra.Command{
	Use:   "db",
	Short: "数据库管理命令",
	Long:  `数据库管理相关的命令，包括初始数据写入与ID重排`,
}

// seedCmd 写入初始数据
// 示例：./news-portal db seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "写入初始数据",
	Long:  `分类与文章表都为空时写入示例分类和文章`,
	Run: func(cmd *cobra.Command, args []string) {
		runOrExit(seedData)
	},
}

// compactCmd 重排ID
// 示例：./news-portal db compact
var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "重排文章与分类ID",
	Long:  `修复ID空洞，使文章与分类ID从1开始连续`,
	Run: func(cmd *cobra.Command, args []string) {
		runOrExit(compactIDs)
	},
}

func init() {
	databaseCmd.AddCommand(seedCmd)
	databaseCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(databaseCmd)
}

// runOrExit 执行命令，失败时退出
func runOrExit(fn func(ctx context.Context) error) {
	if err := fn(context.Background()); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// seedData 写入初始数据
func seedData(ctx context.Context) error {
	deps, a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	res, err := a.System.Seed(ctx)
	if err != nil {
		return fmt.Errorf("写入初始数据失败: %w", err)
	}
	if res.Categories == 0 {
		fmt.Println("数据库非空，跳过初始数据")
		return nil
	}
	fmt.Printf("✅ 已写入 %d 个分类, %d 篇文章\n", res.Categories, res.Articles)
	return nil
}

// compactIDs 重排全部ID
func compactIDs(ctx context.Context) error {
	deps, a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	res, err := a.Compactor.CompactAll(ctx, a.Repos)
	if err != nil {
		return fmt.Errorf("重排ID失败: %w", err)
	}
	fmt.Printf("✅ 文章移动 %d 条, 分类移动 %d 条\n", res.Articles, res.Categories)
	return nil
}
