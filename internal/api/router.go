package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"parking-status-backend/config"
	"parking-status-backend/internal/mw"
	"parking-status-backend/internal/telemetry"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, handler *Handler, store telemetry.Store, logger *zap.Logger) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	rateLimiter := mw.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.ResponseCache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Telemetry(store, logger))
	{
		parkings := api.Group("/parkings")
		{
			parkings.GET("", handler.GetParkings)
			parkings.GET("/free", handler.GetFreeParkings)
			parkings.GET("/free/most", handler.GetMostFreeParking)
			parkings.GET("/closest", handler.GetClosestParking)
			parkings.GET("/name/:name", handler.GetParkingByName)
			parkings.GET("/symbol/:symbol", handler.GetParkingBySymbol)

			// Historical aggregates are served from memory and change
			// slowly, so they sit behind the response cache.
			parkings.GET("/stats", caching, handler.GetParkingStats)
			parkings.GET("/stats/daily", caching, handler.GetDailyParkingStats)
			parkings.GET("/stats/weekly", caching, handler.GetWeeklyParkingStats)
			parkings.GET("/stats/daily/collective", caching, handler.GetCollectiveDailyStats)
			parkings.GET("/stats/weekly/collective", caching, handler.GetCollectiveWeeklyStats)

			parkings.GET("/:id", handler.GetParkingByID)
			parkings.GET("/:id/stats", caching, handler.GetParkingStatsByID)
			parkings.GET("/:id/stats/daily", caching, handler.GetDailyParkingStatsByID)
			parkings.GET("/:id/stats/weekly", caching, handler.GetWeeklyParkingStatsByID)
		}

		requests := api.Group("/requests")
		{
			requests.GET("/stats", handler.GetRequestStats)
			requests.GET("/peaks", handler.GetRequestPeakTimes)
		}
	}

	return r
}
