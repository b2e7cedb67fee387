package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resource-booking-backend/internal/booking"
	"resource-booking-backend/internal/catalog"
	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/store"
)

// DashboardAsset is one card on the dashboard.
type DashboardAsset struct {
	AssetResponse
	Status  booking.Status `json:"status"`
	Booking *model.Booking `json:"booking,omitempty"`
}

// DashboardGroup is one category section on the dashboard.
type DashboardGroup struct {
	Category string           `json:"category"`
	Assets   []DashboardAsset `json:"assets"`
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now().UTC()

	assets, err := h.store.ListAssets(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	bookings, err := h.store.ListBookings(ctx, store.BookingFilter{From: now})
	if err != nil {
		respondError(c, err)
		return
	}
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	groups := catalog.GroupByCategory(assets)
	resp := make([]DashboardGroup, len(groups))
	for i, g := range groups {
		entries := make([]DashboardAsset, len(g.Assets))
		for j, a := range g.Assets {
			occ := booking.ResolveStatus(a, booking.ForAsset(bookings, a.ID), now)
			entries[j] = DashboardAsset{
				AssetResponse: AssetResponse{Asset: a, Icon: catalog.ResolveIcon(a, settings.CategoryIcons)},
				Status:        occ.Status,
				Booking:       occ.Booking,
			}
		}
		resp[i] = DashboardGroup{Category: g.Category, Assets: entries}
	}
	c.JSON(http.StatusOK, resp)
}
