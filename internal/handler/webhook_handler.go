package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HOLYLABS972/esim-main-sub002/internal/service"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// WebhookHandler receives purchase notifications from the order pipeline.
type WebhookHandler struct {
	ledger *service.LedgerService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(ledger *service.LedgerService) *WebhookHandler {
	return &WebhookHandler{ledger: ledger}
}

// PurchaseCompleted handles POST /api/v1/webhooks/purchase-completed
//
// The pipeline retries deliveries, so the same purchase id may arrive more
// than once; the credit is idempotent and replays return the original entry.
func (h *WebhookHandler) PurchaseCompleted(c *gin.Context) {
	var event service.PurchaseEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	trx, err := h.ledger.CreditCommission(c.Request.Context(), event)
	if err != nil {
		respondError(c, err)
		return
	}
	if trx == nil {
		utils.Success(c, http.StatusOK, "No commission due", nil)
		return
	}
	utils.Success(c, http.StatusOK, "Commission credited", trx)
}
