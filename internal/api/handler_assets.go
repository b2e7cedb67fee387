package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"resource-booking-backend/internal/catalog"
	"resource-booking-backend/internal/failure"
	"resource-booking-backend/internal/kiosk"
	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/parse"
	"resource-booking-backend/internal/store"
)

// AssetResponse is an asset with its icon resolved for display.
type AssetResponse struct {
	model.Asset
	Icon string `json:"icon"`
}

func (h *Handler) withIcons(ctx context.Context, assets []model.Asset) ([]AssetResponse, error) {
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AssetResponse, len(assets))
	for i, a := range assets {
		out[i] = AssetResponse{Asset: a, Icon: catalog.ResolveIcon(a, settings.CategoryIcons)}
	}
	return out, nil
}

// ListAssets handles GET /api/assets.
func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.store.ListAssets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.withIcons(c.Request.Context(), assets)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListIcons handles GET /api/icons, the choices offered by the asset editor.
func (h *Handler) ListIcons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"icons": catalog.Icons(), "default": catalog.DefaultIcon})
}

// GetAsset handles GET /api/assets/:id.
func (h *Handler) GetAsset(c *gin.Context) {
	asset, err := h.store.GetAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.withIcons(c.Request.Context(), []model.Asset{asset})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp[0])
}

// GetAssetStatus handles GET /api/assets/:id/status, the kiosk's polling endpoint.
func (h *Handler) GetAssetStatus(c *gin.Context) {
	frame, err := kiosk.Snapshot(c.Request.Context(), h.store, c.Param("id"), h.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frame)
}

// GetAssetBookings handles GET /api/assets/:id/bookings?date=YYYY-MM-DD.
func (h *Handler) GetAssetBookings(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.store.GetAsset(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	filter := store.BookingFilter{AssetID: id}
	if raw := c.Query("date"); raw != "" {
		day, err := parse.ParseDate(raw, h.location())
		if err != nil {
			respondError(c, failure.Validation("date must have the form YYYY-MM-DD"))
			return
		}
		filter.From = day
		filter.To = day.AddDate(0, 0, 1)
	}

	bookings, err := h.store.ListBookings(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

type createAssetRequest struct {
	Name          string  `json:"name" binding:"required,max=100"`
	Type          string  `json:"type" binding:"required,max=50"`
	Description   string  `json:"description" binding:"max=255"`
	Color         string  `json:"color" binding:"omitempty,hexcolor"`
	IsMaintenance bool    `json:"is_maintenance"`
	Icon          *string `json:"icon" binding:"omitempty,max=64"`
	SortOrder     *int    `json:"sortOrder"`
}

// CreateAsset handles POST /api/admin/assets.
func (h *Handler) CreateAsset(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	if req.Icon != nil && *req.Icon == "" {
		req.Icon = nil
	}

	asset, err := h.store.CreateAsset(c.Request.Context(), model.Asset{
		Name:          req.Name,
		Type:          req.Type,
		Description:   req.Description,
		Color:         req.Color,
		IsMaintenance: req.IsMaintenance,
		Icon:          req.Icon,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

// UpdateAsset handles PUT /api/admin/assets/:id. Omitted fields are kept.
func (h *Handler) UpdateAsset(c *gin.Context) {
	var req store.AssetUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	asset, err := h.store.UpdateAsset(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// DeleteAsset handles DELETE /api/admin/assets/:id. Bookings of the asset are kept.
func (h *Handler) DeleteAsset(c *gin.Context) {
	if err := h.store.DeleteAsset(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type maintenanceRequest struct {
	IsMaintenance *bool `json:"is_maintenance" binding:"required"`
}

// SetMaintenance handles PUT /api/admin/assets/:id/maintenance.
func (h *Handler) SetMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	asset, err := h.store.SetMaintenance(c.Request.Context(), c.Param("id"), *req.IsMaintenance)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}
