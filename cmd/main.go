package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/edubooster/backend/config"
	"github.com/edubooster/backend/internal/handler"
	"github.com/edubooster/backend/internal/middleware"
	"github.com/edubooster/backend/internal/notify"
	"github.com/edubooster/backend/internal/repository"
	"github.com/edubooster/backend/internal/router"
	"github.com/edubooster/backend/internal/service"
	"github.com/edubooster/backend/pkg/database"
	"github.com/edubooster/backend/pkg/logger"
	"github.com/edubooster/backend/pkg/redis"
	"github.com/edubooster/backend/pkg/storage"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db); err != nil {
		// Don't fail - seed data may already exist
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	} else {
		logger.GetLogger().Info("Database seeded successfully")
	}

	redisClient := redis.NewClient(redis.Config{
		Enabled:      config.Redis.Enabled,
		Addr:         config.RedisAddress(),
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	avatarStore, err := storage.NewLocalStore(config.Upload.Dir)
	if err != nil {
		logger.GetLogger().Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	mailer, err := notify.NewMailer(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize mailer", zap.Error(err))
	}
	smsGateway := notify.NewSMSGateway(config)

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	tokenService := service.NewTokenService(
		config.JWT.AccessSecret,
		config.JWT.RefreshSecret,
		config.JWT.AccessTTL,
		config.JWT.RefreshTTL,
	)
	authService := service.NewAuthService(userRepo, tokenService, mailer, smsGateway)
	userService := service.NewUserService(userRepo, avatarStore, mailer, smsGateway, redisClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	jwtMiddleware := middleware.NewJWTMiddleware(tokenService)

	engine := router.NewRouter(
		authHandler,
		userHandler,
		healthHandler,
		jwtMiddleware,
		config,
	).SetupRoutes()

	server := &http.Server{
		Addr:         ":" + config.App.Port,
		Handler:      engine,
		ReadTimeout:  config.App.Timeout,
		WriteTimeout: config.App.Timeout,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Forced shutdown", zap.Error(err))
	}
}
