package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/GRAF231/brigada/internal/config"
	"github.com/GRAF231/brigada/internal/entity"
	"github.com/GRAF231/brigada/internal/handler"
	"github.com/GRAF231/brigada/internal/middleware"
	"github.com/GRAF231/brigada/internal/repository"
	"github.com/GRAF231/brigada/internal/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Version задаётся при сборке
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Загружаем .env
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting brigada service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Project{},
		&entity.ProjectUser{},
		&entity.Estimate{},
		&entity.EstimateItem{},
		&entity.Schedule{},
		&entity.ScheduleItem{},
		&entity.StatusMessage{},
		&entity.PriceList{},
		&entity.PriceItem{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	if err := ensureBucket(cfg.MinIO); err != nil {
		zapLogger.Warn("MinIO bucket check failed, attachments may be unavailable", zap.Error(err))
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if err := services.Reminder.Start(); err != nil {
		zapLogger.Fatal("Failed to start reminder scheduler", zap.Error(err))
	}
	defer services.Reminder.Stop()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func ensureBucket(cfg config.MinIOConfig) error {
	if cfg.Endpoint == "" {
		return nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// Проверка живости
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	api := r.Group("/api")

	// Аутентификация
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	// Всё остальное — только с токеном
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		protected.GET("/auth/me", h.Auth.Me)
		protected.PUT("/auth/me", h.Auth.UpdateMe)

		protected.GET("/users", h.User.List)
		protected.GET("/users/:id", h.User.Get)

		projects := protected.Group("/projects")
		{
			projects.POST("", h.Project.Create)
			projects.GET("", h.Project.List)
			projects.GET("/:id", h.Project.Get)
			projects.PUT("/:id", h.Project.Update)
			projects.DELETE("/:id", h.Project.Delete)

			projects.GET("/:id/members", h.Project.ListMembers)
			projects.POST("/:id/members", h.Project.AddMember)
			projects.DELETE("/:id/members/:userId", h.Project.RemoveMember)

			projects.GET("/:id/estimate", h.Estimate.GetOrCreate)
			projects.GET("/:id/schedule", h.Schedule.GetOrCreate)

			projects.GET("/:id/status", h.StatusMessage.List)
			projects.POST("/:id/status", h.StatusMessage.Create)
		}

		estimates := protected.Group("/estimates")
		{
			estimates.GET("/:id", h.Estimate.Get)
			estimates.POST("/:id/items", h.Estimate.AddItem)
			estimates.GET("/:id/export", h.Estimate.Export)
		}

		estimateItems := protected.Group("/estimate-items")
		{
			estimateItems.PUT("/:id", h.Estimate.UpdateItem)
			estimateItems.PATCH("/:id/status", h.Estimate.ChangeStatus)
			estimateItems.DELETE("/:id", h.Estimate.DeleteItem)
		}

		schedules := protected.Group("/schedules")
		{
			schedules.POST("/:id/items", h.Schedule.AddItem)
		}

		scheduleItems := protected.Group("/schedule-items")
		{
			scheduleItems.PUT("/:id", h.Schedule.UpdateItem)
			scheduleItems.PATCH("/:id/status", h.Schedule.ChangeStatus)
			scheduleItems.DELETE("/:id", h.Schedule.DeleteItem)
		}

		statusMessages := protected.Group("/status-messages")
		{
			statusMessages.DELETE("/:id", h.StatusMessage.Delete)
			statusMessages.GET("/:id/attachments/:attachmentId", h.StatusMessage.AttachmentURL)
		}

		priceLists := protected.Group("/price-lists")
		{
			priceLists.POST("", h.PriceList.Create)
			priceLists.GET("", h.PriceList.List)
			priceLists.GET("/:id", h.PriceList.Get)
			priceLists.PUT("/:id", h.PriceList.Update)
			priceLists.DELETE("/:id", h.PriceList.Delete)
			priceLists.POST("/:id/items", h.PriceList.AddItem)
		}

		priceItems := protected.Group("/price-items")
		{
			priceItems.GET("/search", h.PriceList.SearchItems)
			priceItems.PUT("/:id", h.PriceList.UpdateItem)
			priceItems.DELETE("/:id", h.PriceList.DeleteItem)
		}
	}
}
