package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/wheelshare/vehicle-rental/internal/booking"
    "github.com/wheelshare/vehicle-rental/internal/config"
    "github.com/wheelshare/vehicle-rental/internal/database"
    "github.com/wheelshare/vehicle-rental/internal/handler"
    "github.com/wheelshare/vehicle-rental/internal/middleware"
    "github.com/wheelshare/vehicle-rental/internal/repository"
    "github.com/wheelshare/vehicle-rental/internal/router"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments set the environment directly

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis backs the rate limiter and the catalog cache.  Both fall
    // back to pass-through when it is unreachable, so a Redis outage
    // degrades to slower, unthrottled service instead of downtime.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable, rate limiting and response cache disabled")
    }

    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)
    vehicleRepo := repository.NewVehicleRepo(db)
    rentalRepo := repository.NewRentalRepo(db)
    saleRepo := repository.NewSaleRepo(db)
    favoriteRepo := repository.NewFavoriteRepo(db)

    h := router.Handlers{
        Auth:      handler.NewAuthHandler(cfg, userRepo, tokenRepo),
        Users:     handler.NewUserHandler(userRepo),
        Vehicles:  handler.NewVehicleHandler(vehicleRepo),
        Rentals:   handler.NewRentalHandler(booking.NewService(vehicleRepo, rentalRepo)),
        Sales:     handler.NewSaleHandler(saleRepo),
        Favorites: handler.NewFavoriteHandler(favoriteRepo),
    }
    mw := router.Middleware{
        RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
        Cache:     middleware.NewResponseCache(config.LoadCacheConfig(), rdb),
    }

    e := echo.New()
    e.HideBanner = true
    router.RegisterRoutes(e, h, mw, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
