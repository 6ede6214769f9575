package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HOLYLABS972/esim-main-sub002/internal/service"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// PricingHandler serves price quotes.
type PricingHandler struct {
	pricing *service.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricing *service.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// QuotePlan handles GET /api/v1/plans/:slug/quote
func (h *PricingHandler) QuotePlan(c *gin.Context) {
	quote, err := h.pricing.QuotePlan(c.Request.Context(), c.Param("slug"), discountClassFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Quote computed", quote)
}
