package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HOLYLABS972/esim-main-sub002/internal/service"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// WithdrawalHandler serves commission withdrawal requests and history.
type WithdrawalHandler struct {
	withdrawals *service.WithdrawalService
	ledger      *service.LedgerService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawals *service.WithdrawalService, ledger *service.LedgerService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals, ledger: ledger}
}

// Withdraw handles POST /api/v1/users/:id/withdrawals
func (h *WithdrawalHandler) Withdraw(c *gin.Context) {
	req, err := h.withdrawals.Withdraw(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Withdrawal settled", req)
}

// History handles GET /api/v1/users/:id/withdrawals
func (h *WithdrawalHandler) History(c *gin.Context) {
	list, err := h.withdrawals.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Withdrawals retrieved", list)
}

// Balance handles GET /api/v1/users/:id/balance
func (h *WithdrawalHandler) Balance(c *gin.Context) {
	balance, err := h.ledger.Balance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Balance retrieved", gin.H{"balance": balance})
}
