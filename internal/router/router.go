package router

import (
    "github.com/labstack/echo/v4"

    "github.com/wheelshare/vehicle-rental/internal/handler"
    "github.com/wheelshare/vehicle-rental/internal/middleware"
)

// Handlers carries every handler the API mounts.  Router stays a thin
// mapping from paths to methods; all behavior lives in the handlers.
type Handlers struct {
    Auth      *handler.AuthHandler
    Users     *handler.UserHandler
    Vehicles  *handler.VehicleHandler
    Rentals   *handler.RentalHandler
    Sales     *handler.SaleHandler
    Favorites *handler.FavoriteHandler
}

// Middleware groups the cross-cutting echo middleware applied per
// route group.  Any of them may be a pass-through (disabled by config
// or Redis absent).
type Middleware struct {
    RateLimit echo.MiddlewareFunc
    Cache     echo.MiddlewareFunc
}

// RegisterRoutes mounts the whole API surface.
//
// Layout:
//   /healthz                unauthenticated liveness probe
//   /v1/auth/*              register/login/refresh/logout, rate limited
//   /v1/vehicles, /v1/sales unauthenticated browse, response cached
//   /v1/*                   everything else behind JWT auth
func RegisterRoutes(e *echo.Echo, h Handlers, mw Middleware, jwtSecret string) {
    e.GET("/healthz", handler.Health)

    // Token issuance is the classic brute-force target, so the rate
    // limiter fronts the whole auth group.
    authGroup := e.Group("/v1/auth", mw.RateLimit)
    authGroup.POST("/register", h.Auth.Register)
    authGroup.POST("/login", h.Auth.Login)
    authGroup.POST("/refresh", h.Auth.Refresh)
    authGroup.POST("/logout", h.Auth.Logout)

    // Public browse endpoints; cached so catalog pages stay cheap.
    browse := e.Group("/v1", mw.Cache)
    browse.GET("/vehicles", h.Vehicles.List)
    browse.GET("/vehicles/:id", h.Vehicles.Get)
    browse.GET("/sales", h.Sales.List)
    browse.GET("/sales/:id", h.Sales.Get)
    browse.GET("/users/:id", h.Users.Get)

    // Everything below requires a valid access token.
    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.GET("/me", h.Auth.Me)

    // Booking lifecycle.  Creation shares the rate limiter with auth:
    // a reservation burns inventory, not just CPU.
    auth.POST("/rentals", h.Rentals.Create, mw.RateLimit)
    auth.GET("/rentals", h.Rentals.List)
    auth.PUT("/rentals/:id/cancel", h.Rentals.Cancel)

    // Sale listings owned by the caller.
    auth.POST("/sales", h.Sales.Create)
    auth.GET("/sales/mine", h.Sales.Mine)
    auth.PUT("/sales/:id/status", h.Sales.UpdateStatus)

    // Favorites.
    auth.POST("/favorites", h.Favorites.Add)
    auth.GET("/favorites", h.Favorites.List)
    auth.DELETE("/favorites/:id", h.Favorites.Remove)
    auth.GET("/favorites/check/:type/:itemId", h.Favorites.Check)
}
