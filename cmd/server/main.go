package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campusmarket/docs"
	"campusmarket/internal/auth"
	"campusmarket/internal/cache"
	"campusmarket/internal/config"
	"campusmarket/internal/db"
	"campusmarket/internal/handler"
	"campusmarket/internal/logging"
	"campusmarket/internal/repository"
	"campusmarket/internal/router"
	"campusmarket/internal/service"
)

// @title Campus Marketplace API
// @version 1.0
// @description Campus marketplace: list items for sale, browse, search, and manage contact info.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Browsers may use the access_token cookie instead.
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, logger); err != nil {
		logger.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, running without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	cancel()

	// Initialize repositories
	listingRepo := repository.NewListingRepository(gormDB)
	accountRepo := repository.NewAccountInfoRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	signer := auth.NewURLSigner(cfg.URLSignerSecret, cfg.SignedURLTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	listingService := service.NewListingService(listingRepo, cacheClient, cfg.ListingCacheTTL, logger)
	accountService := service.NewAccountInfoService(accountRepo, listingRepo, logger)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, logger, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(authService),
		Listing: handler.NewListingHandler(listingService, signer, cfg.MaxUploadBytes, logger),
		Search:  handler.NewSearchHandler(listingService),
		Account: handler.NewAccountHandler(accountService),
	}, jwtService, signer)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	logger.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))

	addr := ":" + cfg.ServerPort
	logger.Info("server starting", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server start", zap.Error(err))
	}
}

func swaggerURL(cfg *config.Config) string {
	switch {
	case cfg.SwaggerHost == "":
		return "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	case strings.HasPrefix(cfg.SwaggerHost, "http://"), strings.HasPrefix(cfg.SwaggerHost, "https://"):
		return cfg.SwaggerHost + "/swagger/index.html"
	default:
		return "http://" + cfg.SwaggerHost + "/swagger/index.html"
	}
}
