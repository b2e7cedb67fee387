package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resource-booking-backend/internal/model"
)

type updateConfigRequest struct {
	HeaderText       string            `json:"headerText" binding:"required,max=100"`
	SiteTitle        string            `json:"siteTitle" binding:"max=100"`
	AccentColor      string            `json:"accentColor" binding:"omitempty,hexcolor"`
	CategoryIcons    map[string]string `json:"categoryIcons"`
	PlaceholderTitle string            `json:"placeholderTitle" binding:"max=200"`
	PlaceholderName  string            `json:"placeholderName" binding:"max=200"`
	PlaceholderEmail string            `json:"placeholderEmail" binding:"max=200"`
}

// GetConfig handles GET /api/config.
func (h *Handler) GetConfig(c *gin.Context) {
	settings, err := h.store.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateConfig handles PUT /api/admin/config and replaces the stored settings.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req updateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	settings, err := h.store.UpdateSettings(c.Request.Context(), model.Settings{
		HeaderText:       req.HeaderText,
		SiteTitle:        req.SiteTitle,
		AccentColor:      req.AccentColor,
		CategoryIcons:    req.CategoryIcons,
		PlaceholderTitle: req.PlaceholderTitle,
		PlaceholderName:  req.PlaceholderName,
		PlaceholderEmail: req.PlaceholderEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
