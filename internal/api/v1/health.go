package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stayquote/stayquote/internal/config"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/types"
)

type HealthHandler struct {
	driver types.RepositoryDriver
	pivot  string
	logger *logger.Logger
}

func NewHealthHandler(cfg *config.Configuration, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		driver: cfg.Repository.Driver,
		pivot:  cfg.ExchangeRate.PivotCurrency,
		logger: logger,
	}
}

// HealthResponse reports liveness and the storage the engine runs on
type HealthResponse struct {
	Status        string                 `json:"status"`
	Repository    types.RepositoryDriver `json:"repository"`
	PivotCurrency string                 `json:"pivot_currency"`
}

// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		Repository:    h.driver,
		PivotCurrency: h.pivot,
	})
}
