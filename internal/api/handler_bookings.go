package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"resource-booking-backend/internal/failure"
	"resource-booking-backend/internal/ics"
	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/parse"
	"resource-booking-backend/internal/store"
)

// createBookingRequest accepts either full timestamps (startTime, endTime) or the
// booking form's date plus HH:MM fields (date, start, end).
type createBookingRequest struct {
	AssetID   string `json:"assetId" binding:"required"`
	Title     string `json:"title" binding:"required,max=200"`
	StartTime string `json:"startTime" binding:"required_without=Date"`
	EndTime   string `json:"endTime" binding:"required_without=Date"`
	Date      string `json:"date"`
	Start     string `json:"start" binding:"required_with=Date"`
	End       string `json:"end" binding:"required_with=Date"`
	UserName  string `json:"userName" binding:"required,max=100"`
	UserEmail string `json:"userEmail" binding:"required,email,max=100"`
}

func (r createBookingRequest) interval(loc *time.Location) (start, end time.Time, err error) {
	if r.Date != "" {
		if start, err = parse.CombineDateTime(r.Date, r.Start, loc); err != nil {
			return start, end, failure.Validation(fmt.Sprintf("invalid start: %v", err))
		}
		if end, err = parse.CombineDateTime(r.Date, r.End, loc); err != nil {
			return start, end, failure.Validation(fmt.Sprintf("invalid end: %v", err))
		}
		return start, end, nil
	}

	if start, err = parse.ParseTimestamp(r.StartTime, loc); err != nil {
		return start, end, failure.Validation(fmt.Sprintf("invalid startTime: %v", err))
	}
	if end, err = parse.ParseTimestamp(r.EndTime, loc); err != nil {
		return start, end, failure.Validation(fmt.Sprintf("invalid endTime: %v", err))
	}
	return start, end, nil
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	start, end, err := req.interval(h.location())
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	created, err := h.store.CreateBooking(ctx, model.Booking{
		AssetID:   req.AssetID,
		Title:     req.Title,
		StartTime: start,
		EndTime:   end,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
	}, h.now())
	if err != nil {
		respondError(c, err)
		return
	}

	assetName := created.AssetID
	if asset, err := h.store.GetAsset(ctx, created.AssetID); err == nil {
		assetName = asset.Name
	}
	if err := h.mailer.SendConfirmation(ctx, created, assetName); err != nil {
		log.Warn().Err(err).Str("booking_id", created.ID).Msg("failed to send booking confirmation")
	}

	c.JSON(http.StatusCreated, created)
}

// BookingConfirmation is the payload of the confirmation view.
type BookingConfirmation struct {
	model.Booking
	AssetName string `json:"assetName"`
}

func (h *Handler) confirmation(c *gin.Context) (BookingConfirmation, bool) {
	ctx := c.Request.Context()
	b, err := h.store.GetBooking(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return BookingConfirmation{}, false
	}

	resp := BookingConfirmation{Booking: b}
	asset, err := h.store.GetAsset(ctx, b.AssetID)
	switch {
	case err == nil:
		resp.AssetName = asset.Name
	case failure.IsNotFound(err):
		// The asset was deleted after the booking was made.
	default:
		respondError(c, err)
		return BookingConfirmation{}, false
	}
	return resp, true
}

// GetBooking handles GET /api/bookings/:id.
func (h *Handler) GetBooking(c *gin.Context) {
	resp, ok := h.confirmation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBookingICS handles GET /api/bookings/:id/ics.
func (h *Handler) GetBookingICS(c *gin.Context) {
	resp, ok := h.confirmation(c)
	if !ok {
		return
	}
	body := ics.Render(resp.Booking, resp.AssetName, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ics.Filename(resp.Booking)))
	c.Data(http.StatusOK, ics.ContentType, []byte(body))
}

// ListAllBookings handles GET /api/admin/bookings, newest first.
func (h *Handler) ListAllBookings(c *gin.Context) {
	bookings, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{NewestFirst: true})
	if err != nil {
		respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// DeleteBooking handles DELETE /api/admin/bookings/:id.
func (h *Handler) DeleteBooking(c *gin.Context) {
	if err := h.store.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
