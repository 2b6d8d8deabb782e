package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jayu6624/PRODIGY-FS-02/docs"
	"github.com/jayu6624/PRODIGY-FS-02/internal/auth"
	"github.com/jayu6624/PRODIGY-FS-02/internal/cache"
	"github.com/jayu6624/PRODIGY-FS-02/internal/config"
	"github.com/jayu6624/PRODIGY-FS-02/internal/db"
	"github.com/jayu6624/PRODIGY-FS-02/internal/handler"
	"github.com/jayu6624/PRODIGY-FS-02/internal/logger"
	"github.com/jayu6624/PRODIGY-FS-02/internal/middleware"
	"github.com/jayu6624/PRODIGY-FS-02/internal/repository"
	"github.com/jayu6624/PRODIGY-FS-02/internal/router"
	"github.com/jayu6624/PRODIGY-FS-02/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Employee Management API
// @version 1.0
// @description Employee management API with JWT sessions and per-user employee records.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.JWTSecret == "change-me" {
		if cfg.IsProduction() {
			zl.Fatal("JWT_SECRET must be set in production")
		}
		zl.Warn("JWT_SECRET not set, using the insecure default")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		Logger:          zl,
	})
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}

	if cfg.ResetDB {
		zl.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			zl.Fatal("reset database", zap.Error(err))
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		zl.Fatal("migrate database", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		zl.Warn("redis unavailable, caching and logout revocation disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	cancelPing()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	employeeRepo := repository.NewEmployeeRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	employeeService := service.NewEmployeeService(employeeRepo)

	session := middleware.NewSession(jwtService, userService, authService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.TokenTTL, cfg.IsProduction())
	employeeHandler := handler.NewEmployeeHandler(employeeService)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	router.Register(e, cfg, zl, session, authHandler, employeeHandler)

	go func() {
		zl.Info("server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("env", cfg.Env),
			zap.String("db_driver", cfg.DBDriver),
			zap.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"),
		)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zl.Info("server stopped")
}
