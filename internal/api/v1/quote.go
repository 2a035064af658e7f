package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stayquote/stayquote/internal/api/dto"
	"github.com/stayquote/stayquote/internal/clock"
	"github.com/stayquote/stayquote/internal/domain/quote"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/service"
	"github.com/stayquote/stayquote/internal/types"
)

type QuoteHandler struct {
	quoteService service.QuoteService
	clock        clock.Clock
	logger       *logger.Logger
}

func NewQuoteHandler(quoteService service.QuoteService, clk clock.Clock, logger *logger.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		clock:        clk,
		logger:       logger,
	}
}

// @Summary Price a stay against an inline pricing configuration
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body dto.ComputeQuoteRequest true "Pricing configuration and stay"
// @Success 200 {object} dto.QuoteResponse
// @Router /quotes [post]
func (h *QuoteHandler) ComputeQuote(c *gin.Context) {
	var req dto.ComputeQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	cfg, err := req.Pricing.ToPricingConfig("")
	if err != nil {
		c.Error(err)
		return
	}
	booking, err := req.Booking.ToBookingRequest(types.GetUserID(c.Request.Context()))
	if err != nil {
		c.Error(err)
		return
	}

	breakdown, err := h.quoteService.ComputePrice(c.Request.Context(), cfg, booking)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse("", breakdown, h.clock.Now()))
}

// @Summary Price a stay for a listing
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.QuoteRequest true "Stay"
// @Success 200 {object} dto.QuoteResponse
// @Router /listings/{id}/quotes [post]
func (h *QuoteHandler) QuoteListing(c *gin.Context) {
	listingID := c.Param("id")
	if listingID == "" {
		c.Error(ierr.NewError("listing ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	booking, err := req.ToBookingRequest(types.GetUserID(c.Request.Context()))
	if err != nil {
		c.Error(err)
		return
	}

	breakdown, err := h.quoteService.QuoteListing(c.Request.Context(), listingID, booking)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(listingID, breakdown, h.clock.Now()))
}

// @Summary Price a stay for a listing in several currencies
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.MultiCurrencyQuoteRequest true "Stay and currencies"
// @Success 200 {object} dto.MultiCurrencyQuoteResponse
// @Router /listings/{id}/quotes/currencies [post]
func (h *QuoteHandler) QuoteListingCurrencies(c *gin.Context) {
	listingID := c.Param("id")
	if listingID == "" {
		c.Error(ierr.NewError("listing ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.MultiCurrencyQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	// the currency is filled in per quote
	booking, err := req.ToBookingRequest(types.CurrencyUSD, types.GetUserID(c.Request.Context()))
	if err != nil {
		c.Error(err)
		return
	}

	breakdowns, err := h.quoteService.QuoteCurrencies(c.Request.Context(), listingID, booking, req.Currencies)
	if err != nil {
		c.Error(err)
		return
	}

	now := h.clock.Now()
	c.JSON(http.StatusOK, dto.MultiCurrencyQuoteResponse{
		ListingID: listingID,
		Quotes: lo.Map(breakdowns, func(b *quote.PriceBreakdown, _ int) *dto.QuoteResponse {
			return dto.NewQuoteResponse(listingID, b, now)
		}),
	})
}
