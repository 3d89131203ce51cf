package main

import (
	"context"
	"database/sql"
	"flag"
	"jobconnect-backend/config"
	"jobconnect-backend/migrations"
	"log"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "revert the most recent migration")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.DBUrl == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator := migrations.NewMigrator(db, logger)
	if *down {
		if err := migrator.Down(ctx, migrations.All()); err != nil {
			logger.Fatal("Failed to revert migration", zap.Error(err))
		}
		logger.Info("Migration reverted")
		return
	}

	if err := migrator.Up(ctx, migrations.All()); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	logger.Info("All migrations completed successfully")
}
