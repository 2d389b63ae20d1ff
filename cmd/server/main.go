package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/api/handler"
	"github.com/utkandevrim/ac/internal/api/middleware"
	"github.com/utkandevrim/ac/internal/api/router"
	"github.com/utkandevrim/ac/internal/repository"
	"github.com/utkandevrim/ac/internal/scheduler"
	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/database"
	"github.com/utkandevrim/ac/pkg/jwt"
	"github.com/utkandevrim/ac/pkg/kafka"
	applogger "github.com/utkandevrim/ac/pkg/logger"
	"github.com/utkandevrim/ac/pkg/mail"
	"github.com/utkandevrim/ac/pkg/redis"
	"github.com/utkandevrim/ac/pkg/storage"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("ACTOR_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting actor club portal",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("club_timezone", cfg.Club.Timezone),
	)

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. optional collaborators; each stays a nil interface when disabled
	var deps service.Deps
	var limiter middleware.RateChecker

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, token revocation disabled and rate limits are per process", zap.Error(err))
			rdb = nil
		}
	}
	if rdb != nil {
		deps.Blacklist = rdb
		limiter = rdb
	}

	if mailer := mail.NewMailer(&cfg.Mail, logger); mailer != nil {
		deps.Mailer = mailer
	} else {
		logger.Info("mail disabled, dues reminders will not be sent")
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if producer != nil {
		deps.Publisher = producer
	}

	files, err := storage.NewLocal(cfg.Server.UploadDir, cfg.Server.MaxUploadMB<<20)
	if err != nil {
		logger.Fatal("upload directory unavailable", zap.Error(err))
	}
	deps.Files = files

	// 5. Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, deps, logger)
	h := handler.NewHandler(svc)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Auth.EnsureSeedAdmins(seedCtx, cfg.Seed.Admins); err != nil {
		seedCancel()
		logger.Fatal("seed admins failed", zap.Error(err))
	}
	seedCancel()

	// 6. background jobs
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(cfg, svc.Dues, logger)
		if err != nil {
			logger.Fatal("scheduler setup failed", zap.Error(err))
		}
		sched.Start()
	}

	// 7. HTTP server with graceful shutdown
	engine := router.Setup(cfg, h, svc.Auth, limiter, db, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	if sched != nil {
		sched.Stop()
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", zap.Error(err))
		}
	}

	if rdb != nil {
		rdb.Close()
	}

	sqlDB.Close()

	logger.Info("server stopped")
}
