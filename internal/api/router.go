package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"campus-space-backend/config"
	"campus-space-backend/internal/course"
	"campus-space-backend/internal/ingest"
	"campus-space-backend/internal/mw"
	"campus-space-backend/internal/outlet"
	"campus-space-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg config.ServerConfig, s store.Store, holder *course.Holder, ing *ingest.Service, outlets *outlet.Service, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()
	r.Use(mw.RequestID())

	handler := NewHandler(s, holder, ing, outlets, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Room and course answers are recomputed per request; a short cache
	// keeps bursts of identical queries off the calculator.
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/courses", caching, handler.GetCourses)
		api.GET("/buildings", caching, handler.GetBuildings)
		api.GET("/health", handler.GetHealth)
		api.POST("/refresh", handler.PostRefresh)

		api.GET("/rooms/availability", handler.GetRoomAvailability)
		api.GET("/rooms/:room", handler.GetRoom)
		api.GET("/rooms/:room/schedule.ics", handler.GetRoomScheduleICS)

		outletsGroup := api.Group("/outlets")
		{
			outletsGroup.GET("", handler.ListOutlets)
			outletsGroup.GET("/available", handler.GetAvailableOutlets)
			outletsGroup.GET("/location/:building/:floor", handler.GetOutletsByLocation)
			outletsGroup.GET("/stats/summary", handler.GetOutletStats)
			outletsGroup.GET("/:id", handler.GetOutlet)
			outletsGroup.POST("", handler.CreateOutlet)
			outletsGroup.PUT("/:id", handler.UpdateOutlet)
			outletsGroup.DELETE("/:id", handler.DeleteOutlet)
			outletsGroup.POST("/:id/hardware-update", handler.PostHardwareUpdate)
			outletsGroup.POST("/:id/report", handler.PostReport)
		}

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
