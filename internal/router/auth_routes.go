package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/car-rental-reservation/internal/config"
	"github.com/iliyamo/car-rental-reservation/internal/handler"
	"github.com/iliyamo/car-rental-reservation/internal/middleware"
)

// RegisterAuth registers the authentication endpoints. The whole /v1/auth
// group runs behind the Redis token bucket, which keeps credential
// stuffing and refresh-token guessing down to the configured rate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.NewTokenBucket(rlCfg, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout works with a refresh token in the body, no JWT required.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Authenticated logout without a body revokes every session.
	auth.POST("/logout", a.Logout)
}
