// Команда seed применяет схему и наполняет пустые таблицы из JSON.
//
//	go run ./seeders/cmd/seed all
//	go run ./seeders/cmd/seed equipment --dir ./seed-data --migrate=false
package main

import (
	"context"
	"fmt"
	"os"

	"equipment-inventory/pkg/config"
	"equipment-inventory/pkg/database/postgresql"
	applogger "equipment-inventory/pkg/logger"
	"equipment-inventory/seeders"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir string
	migrate bool

	cfg    *config.Config
	logger *zap.Logger
	dbPool *pgxpool.Pool
	seeder *seeders.Seeder
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Наполнение БД справочниками и оборудованием",
	Long: `Заполняет пустые таблицы categories, locations и equipment из JSON-файлов.
Таблица, в которой уже есть строки, пропускается. Без --dir используются встроенные данные.`,
	SilenceUsage:      true,
	PersistentPreRunE: connect,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbPool != nil {
			dbPool.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "каталог с categories.json, locations.json, equipment.json (по умолчанию SEED_DATA_DIR или встроенные данные)")
	rootCmd.PersistentFlags().BoolVar(&migrate, "migrate", true, "применить схему БД перед наполнением")

	rootCmd.AddCommand(
		seedCommand("categories", "Наполнить категории", func(ctx context.Context) error {
			_, err := seeder.SeedCategories(ctx)
			return err
		}),
		seedCommand("locations", "Наполнить локации", func(ctx context.Context) error {
			_, err := seeder.SeedLocations(ctx)
			return err
		}),
		seedCommand("equipment", "Наполнить оборудование (категории и локации должны быть заполнены)", func(ctx context.Context) error {
			_, err := seeder.SeedEquipment(ctx)
			return err
		}),
		seedCommand("all", "Наполнить все таблицы по порядку", func(ctx context.Context) error {
			return seeder.SeedAll(ctx)
		}),
	)
}

func seedCommand(use, short string, run func(ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
}

// connect загружает конфиг, подключается к БД и при необходимости применяет схему.
func connect(cmd *cobra.Command, args []string) error {
	cfg = config.New()
	logger = applogger.NewLogger(cfg.Log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	dbPool, err = postgresql.ConnectDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("подключение к БД: %w", err)
	}

	if migrate {
		if err := postgresql.ApplySchema(ctx, dbPool); err != nil {
			return err
		}
	}

	dir := dataDir
	if dir == "" {
		dir = cfg.Seed.DataDir
	}
	seeder = seeders.NewPostgresSeeder(dbPool, seeders.NewSource(dir), logger)
	return nil
}
