// Command usernames derives a username (name.surname, ASCII folded) for every
// member that has none. Collisions are reported and left for an admin.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/repository"
	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/database"
	"github.com/utkandevrim/ac/pkg/jwt"
	applogger "github.com/utkandevrim/ac/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("ACTOR_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	svc := service.NewService(cfg, repository.NewRepository(db), jwt.NewManager(&cfg.Auth), service.Deps{}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := svc.Member.BackfillUsernames(ctx)
	if err != nil {
		logger.Fatal("username backfill failed", zap.Error(err))
	}

	for _, u := range result.Updated {
		fmt.Println("updated  ", u)
	}
	for _, u := range result.Collisions {
		fmt.Println("collision", u)
	}
	for _, id := range result.Skipped {
		fmt.Println("skipped  ", id, "(no letters in name or surname)")
	}
	logger.Info("username backfill finished",
		zap.Int("updated", len(result.Updated)),
		zap.Int("collisions", len(result.Collisions)),
		zap.Int("skipped", len(result.Skipped)),
	)

	if len(result.Collisions) > 0 {
		os.Exit(2)
	}
}
