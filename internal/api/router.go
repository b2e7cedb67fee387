package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resource-booking-backend/config"
	"resource-booking-backend/internal/mw"
	"resource-booking-backend/internal/notification"
	"resource-booking-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, webpushOptions *webpush.Options) *gin.Engine {
	return newRouter(NewHandler(s, cfg, webpushOptions, notification.LogMailer{}))
}

func newRouter(handler *Handler) *gin.Engine {
	cfg := handler.cfg

	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(), mw.CORS(cfg.Server.CORSOrigins))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	responses := mw.NewResponseCache(time.Duration(cfg.Server.CacheTTLSeconds) * time.Second)
	caching := responses.Cache()

	api := r.Group("/api")
	api.Use(rateLimiter, responses.Invalidate())
	{
		api.GET("/health", handler.Health)

		api.GET("/assets", caching, handler.ListAssets)
		api.GET("/assets/:id", caching, handler.GetAsset)
		api.GET("/assets/:id/bookings", caching, handler.GetAssetBookings)
		// Occupancy depends on the wall clock, so status reads are never cached.
		api.GET("/assets/:id/status", handler.GetAssetStatus)
		api.GET("/assets/:id/kiosk", handler.KioskStream)
		api.GET("/dashboard", handler.Dashboard)
		api.GET("/icons", caching, handler.ListIcons)

		api.POST("/bookings", handler.CreateBooking)
		api.GET("/bookings/:id", caching, handler.GetBooking)
		api.GET("/bookings/:id/ics", handler.GetBookingICS)

		api.GET("/config", caching, handler.GetConfig)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	admin := api.Group("/admin", gin.BasicAuth(gin.Accounts{cfg.Admin.User: cfg.Admin.Password}))
	{
		admin.GET("/bookings", handler.ListAllBookings)
		admin.DELETE("/bookings/:id", handler.DeleteBooking)

		admin.POST("/assets", handler.CreateAsset)
		admin.PUT("/assets/:id", handler.UpdateAsset)
		admin.DELETE("/assets/:id", handler.DeleteAsset)
		admin.PUT("/assets/:id/maintenance", handler.SetMaintenance)

		admin.PUT("/config", handler.UpdateConfig)
	}

	return r
}
