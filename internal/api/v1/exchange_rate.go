package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stayquote/stayquote/internal/api/dto"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/service"
)

type ExchangeRateHandler struct {
	exchangeRateService service.ExchangeRateService
	logger              *logger.Logger
}

func NewExchangeRateHandler(exchangeRateService service.ExchangeRateService, logger *logger.Logger) *ExchangeRateHandler {
	return &ExchangeRateHandler{
		exchangeRateService: exchangeRateService,
		logger:              logger,
	}
}

// @Summary Get the daily exchange rates of a base currency
// @Tags Exchange Rates
// @Produce json
// @Param base path string true "Base currency"
// @Success 200 {object} dto.ExchangeRatesResponse
// @Router /exchange-rates/{base} [get]
func (h *ExchangeRateHandler) GetExchangeRates(c *gin.Context) {
	table, err := h.exchangeRateService.GetRates(c.Request.Context(), c.Param("base"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewExchangeRatesResponse(table))
}
