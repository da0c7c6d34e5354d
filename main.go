// @title Quadrant Planner API
// @version 1.0
// @description 艾森豪威尔矩阵任务规划后端，包含 staging 待整理区、目标与分析。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"quadrant_planner_backend/internal/app"
	"quadrant_planner_backend/internal/config"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		configDir   string
		migrate     bool
		migrateOnly bool
	)

	cmd := &cobra.Command{
		Use:          "quadrant-planner",
		Short:        "Quadrant planner backend server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configDir)
			if err != nil {
				return err
			}

			// 设置迁移标志
			cfg.ForceMigrate = migrate || migrateOnly
			cfg.MigrateOnly = migrateOnly

			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			application.ConfigDir = configDir

			// 迁移完成后直接退出
			if migrateOnly {
				log.Println("Database migration finished")
				application.Close(context.Background())
				return nil
			}

			application.Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config", "configs", "directory containing config.yaml")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations on startup even in release mode")
	cmd.Flags().BoolVar(&migrateOnly, "migrate-only", false, "run database migrations and exit")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
