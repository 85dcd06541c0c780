// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/car-rental-reservation/internal/config"
	"github.com/iliyamo/car-rental-reservation/internal/handler"
	"github.com/iliyamo/car-rental-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the public browse endpoints. The catalog and
// review listings sit behind the Redis response cache so guest browsing
// traffic is served without touching MySQL once warm.
func RegisterRoutes(e *echo.Echo, cars *handler.CarHandler, reviews *handler.ReviewHandler, stats *handler.StatsHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(cacheCfg, rdb)

	g := e.Group("/v1", cache)
	g.GET("/cars", cars.List)
	g.GET("/cars/groups", cars.Groups)
	g.GET("/cars/group/:groupName", cars.ByGroup)
	g.GET("/cars/:id", cars.Get)
	g.GET("/reviews", reviews.List)
	g.GET("/reviews/random", reviews.Random)
	g.GET("/stats/summary", stats.Summary)
}
