package main

import (
	"context"
	"net/http"
	"os"
	"time"

	_ "storefront/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/observability"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

// @title Storefront API
// @version 1.0
// @description Storefront API with user accounts, carts, wishlists, and a product catalog.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		// no logger yet when config is broken
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Error("database init", "err", err)
		os.Exit(1)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.WishlistItem{},
		&model.CartItem{},
		&model.Category{},
		&model.Brand{},
		&model.Product{},
	); err != nil {
		log.Error("auto-migrate", "err", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn("redis unavailable, running without cache", "err", err)
	}
	cancel()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	brandRepo := repository.NewBrandRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	accountService := service.NewAccountService(userRepo, jwtService, tokenStore)
	cartService := service.NewCartService(userRepo)
	productService := service.NewProductService(productRepo, cacheClient)
	brandService := service.NewBrandService(brandRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(accountService)
	userHandler := handler.NewUserHandler(accountService)
	cartHandler := handler.NewCartHandler(cartService)
	productHandler := handler.NewProductHandler(productService)
	brandHandler := handler.NewBrandHandler(brandService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	// Register routes
	router.Register(
		e,
		jwtService,
		tokenStore,
		authHandler,
		userHandler,
		cartHandler,
		productHandler,
		brandHandler,
		categoryHandler,
	)

	addr := ":" + cfg.ServerPort
	log.Info("server starting", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Error("server start", "err", err)
		os.Exit(1)
	}
}
