package api

import (
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"resource-booking-backend/config"
	"resource-booking-backend/internal/failure"
	"resource-booking-backend/internal/notification"
	"resource-booking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	cfg     *config.Config
	webpush *webpush.Options
	mailer  notification.Mailer
	now     func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, cfg *config.Config, webpushOptions *webpush.Options, mailer notification.Mailer) *Handler {
	if mailer == nil {
		mailer = notification.LogMailer{}
	}
	return &Handler{
		store:   s,
		cfg:     cfg,
		webpush: webpushOptions,
		mailer:  mailer,
		now:     time.Now,
	}
}

func (h *Handler) location() *time.Location {
	if h.cfg == nil || h.cfg.Booking.Location == nil {
		return time.UTC
	}
	return h.cfg.Booking.Location
}

// respondError writes err as {"error": message} with the status it carries.
// Unexpected errors are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	code := failure.GetCode(err)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.AbortWithStatusJSON(code, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

// Health reports that the process is serving requests.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
