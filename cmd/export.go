package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"BassTab/config"
	"BassTab/db"
	"BassTab/repository"
	"BassTab/storage"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出配对快照到MinIO",
	Long:  `将数据库中的全部配对载荷序列化为JSON快照并上传到MinIO，供 /static/ 路由直接转发。`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("无法通过GORM连接数据库: %v", err)
		}
		defer db.CloseGormDB()

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("无法连接到MinIO: %v", err)
		}

		repo := repository.NewGormPairRepository(db.GormDB)
		ctx := context.Background()

		pairs, err := repo.All(ctx)
		if err != nil {
			log.Fatalf("读取配对失败: %v", err)
		}

		exported := 0
		for _, pair := range pairs {
			payload := pair.ToPayload()
			if err := payload.Validate(); err != nil {
				log.Printf("跳过无效配对 %s: %v", pair.Slug, err)
				continue
			}

			data, err := json.Marshal(payload)
			if err != nil {
				log.Printf("序列化配对 %s 失败: %v", pair.Slug, err)
				continue
			}
			if err := storage.PutSnapshot(ctx, pair.Slug, data); err != nil {
				log.Printf("上传快照 %s 失败: %v", pair.Slug, err)
				continue
			}
			fmt.Printf("已上传 %s\n", storage.SnapshotObjectName(pair.Slug))
			exported++
		}

		fmt.Printf("快照导出完成：%d/%d\n", exported, len(pairs))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
