package cmd

import (
	"context"
	"fmt"
	"log"

	"BassTab/catalog"
	"BassTab/config"
	"BassTab/db"
	"BassTab/model"
	"BassTab/repository"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "写入内置配对目录",
	Long:  `校验并写入内置的采样配对目录，已有条目按 slug 覆盖更新。`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("无法连接到数据库: %v", err)
		}
		defer db.DB.Close()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("无法通过GORM连接数据库: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.InitDB(); err != nil {
			log.Fatalf("初始化数据库失败: %v", err)
		}
		if err := db.AutoMigrateModels(&model.Pair{}); err != nil {
			log.Fatalf("数据库迁移失败: %v", err)
		}

		repo := repository.NewGormPairRepository(db.GormDB)
		if err := catalog.Seed(context.Background(), repo); err != nil {
			log.Fatalf("写入内置目录失败: %v", err)
		}

		fmt.Printf("内置目录写入完成，共 %d 个配对。\n", len(catalog.SeedPairs()))
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
