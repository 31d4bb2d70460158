package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/handler"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/middleware"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/model"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/service"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/utils"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	BuildID   = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := utils.InitLogger(cfg.Server.Mode); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting clean-slide server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch))

	inpainter, err := service.NewInpainter(cfg)
	if err != nil {
		utils.Logger.Fatal("failed to create inpainter", zap.Error(err))
	}

	var cache service.ResultCache
	if cfg.Redis.Enabled {
		redisService := service.NewRedisService(&cfg.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisService.Ping(pingCtx)
		cancel()
		if err != nil {
			utils.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
			_ = redisService.Close()
		} else {
			utils.Logger.Info("redis connected successfully", zap.String("addr", cfg.Redis.Addr))
			cache = redisService
			defer redisService.Close()
		}
	}

	cleaner := service.NewSlideCleaner(&cfg.Inpaint, inpainter, cache)
	cleanHandler := handler.NewCleanHandler(&cfg.Upload, cleaner)
	systemHandler := handler.NewSystemHandler(model.VersionResponse{
		Version:   Version,
		BuildTime: BuildTime,
		BuildID:   BuildID,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		Strategy:  cleaner.Strategy(),
	})

	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/health", systemHandler.Health)
	r.GET("/version", systemHandler.Version)

	r.POST("/clean-slide", cleanHandler.Clean)
	r.GET("/clean-slide/:key", cleanHandler.Lookup)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		utils.Logger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("strategy", cleaner.Strategy()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	utils.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Error("server shutdown failed", zap.Error(err))
	}
}
