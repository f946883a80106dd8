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

	"skoolife/backend/config"
	"skoolife/backend/internal/api/handler"
	"skoolife/backend/internal/api/router"
	"skoolife/backend/internal/repository"
	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/database"
	"skoolife/backend/pkg/jwt"
	applogger "skoolife/backend/pkg/logger"
	"skoolife/backend/pkg/redis"
	"skoolife/backend/pkg/storage"
)

func main() {
	// 1. configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get underlying sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. redis is optional: without it the token blacklist, rate limiting and
	// the subscription cache degrade, but the service still runs
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis connection failed, running degraded", zap.Error(err))
		rdb = nil
	}

	// 5. file store
	store, err := storage.NewStore(&cfg.Storage)
	if err != nil {
		logger.Fatal("file store init failed", zap.Error(err))
	}

	// 6. dependency wiring: repository -> service -> handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	billing := service.NewStaticBillingProvider(&cfg.Billing)

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, store, billing, logger)
	h := handler.NewHandler(svc)

	// 7. routes
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
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

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
