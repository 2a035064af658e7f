package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stayquote/stayquote/internal/api/dto"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/service"
	"github.com/stayquote/stayquote/internal/types"
)

type PromoHandler struct {
	promoService service.PromoService
	logger       *logger.Logger
}

func NewPromoHandler(promoService service.PromoService, logger *logger.Logger) *PromoHandler {
	return &PromoHandler{
		promoService: promoService,
		logger:       logger,
	}
}

// @Summary Create a promo code
// @Tags Promos
// @Accept json
// @Produce json
// @Param request body dto.CreatePromoCodeRequest true "Promo code"
// @Success 201 {object} dto.PromoCodeResponse
// @Router /promos [post]
func (h *PromoHandler) CreatePromoCode(c *gin.Context) {
	var req dto.CreatePromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.promoService.CreatePromoCode(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a promo code
// @Tags Promos
// @Produce json
// @Param code path string true "Promo code"
// @Success 200 {object} dto.PromoCodeResponse
// @Router /promos/{code} [get]
func (h *PromoHandler) GetPromoCode(c *gin.Context) {
	resp, err := h.promoService.GetPromoCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview the discount of a promo code
// @Tags Promos
// @Accept json
// @Produce json
// @Param request body dto.PreviewPromoRequest true "Promo code and amount"
// @Success 200 {object} dto.PreviewPromoResponse
// @Router /promos/preview [post]
func (h *PromoHandler) PreviewPromoCode(c *gin.Context) {
	var req dto.PreviewPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if req.UserID == "" {
		req.UserID = types.GetUserID(c.Request.Context())
	}

	resp, err := h.promoService.Preview(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Redeem a promo code for a reservation
// @Tags Promos
// @Accept json
// @Produce json
// @Param request body dto.RedeemPromoRequest true "Redemption"
// @Success 201 {object} dto.PromoUsageResponse
// @Router /promos/redeem [post]
func (h *PromoHandler) RedeemPromoCode(c *gin.Context) {
	var req dto.RedeemPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if req.UserID == "" {
		req.UserID = types.GetUserID(c.Request.Context())
	}

	resp, err := h.promoService.Redeem(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
