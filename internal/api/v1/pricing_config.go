package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stayquote/stayquote/internal/api/dto"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/service"
)

type PricingConfigHandler struct {
	pricingConfigService service.PricingConfigService
	logger               *logger.Logger
}

func NewPricingConfigHandler(pricingConfigService service.PricingConfigService, logger *logger.Logger) *PricingConfigHandler {
	return &PricingConfigHandler{
		pricingConfigService: pricingConfigService,
		logger:               logger,
	}
}

// @Summary Create or replace a listing's pricing configuration
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.PricingConfigRequest true "Pricing configuration"
// @Success 200 {object} dto.PricingConfigResponse
// @Router /listings/{id}/pricing [put]
func (h *PricingConfigHandler) UpsertPricingConfig(c *gin.Context) {
	var req dto.PricingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.pricingConfigService.UpsertPricingConfig(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a listing's pricing configuration
// @Tags Pricing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} dto.PricingConfigResponse
// @Router /listings/{id}/pricing [get]
func (h *PricingConfigHandler) GetPricingConfig(c *gin.Context) {
	resp, err := h.pricingConfigService.GetPricingConfig(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a listing's pricing configuration
// @Tags Pricing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /listings/{id}/pricing [delete]
func (h *PricingConfigHandler) DeletePricingConfig(c *gin.Context) {
	if err := h.pricingConfigService.DeletePricingConfig(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "pricing configuration deleted"})
}
