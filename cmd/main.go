package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akiliz/swedish-eco-property-hub-sub000/config"
	"github.com/akiliz/swedish-eco-property-hub-sub000/db"
	authhandler "github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/handler"
	authrepo "github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/repository/postgres"
	authservice "github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/service"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/cache"
	listinghandler "github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/handler"
	listingrepo "github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/repository/postgres"
	listingservice "github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/service"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/ratelimit"
	"github.com/akiliz/swedish-eco-property-hub-sub000/pkg/clock"
	"github.com/akiliz/swedish-eco-property-hub-sub000/pkg/logger"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	dbPool, err := db.NewPostgresPool(context.Background(), cfg.DBURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	clk := clock.New()

	userRepo := authrepo.NewPostgresRepository(dbPool)
	tokenService := authservice.NewTokenService(cfg, clk, zlog)
	guard := authservice.NewAccountGuard(userRepo, cfg, clk, zlog)
	mfaService := authservice.NewTotpService(cfg.TOTPIssuer, clk)
	userService := authservice.NewUserService(userRepo, tokenService, mfaService, guard, cfg, clk, zlog)
	authHandler := authhandler.NewAuthHandler(userService, tokenService)

	store := cache.NewRedisStore(redisClient)
	listingRepo := listingrepo.NewPostgresRepository(dbPool)
	listingService := listingservice.NewListingService(listingRepo, store, cfg.ListingCacheTTLSec, clk, zlog)
	listingHandler := listinghandler.NewListingHandler(listingService)

	limiter := ratelimit.New(redisClient, cfg.RateLimitPerMin, time.Minute, zlog)

	app := fiber.New()
	authhandler.RegisterRoutes(app, authHandler, limiter.Handle())
	listinghandler.RegisterRoutes(app, listingHandler, authHandler.RequireAuth)

	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
