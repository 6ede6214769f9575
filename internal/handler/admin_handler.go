package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/service"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// AdminHandler serves the operator surface: pricing settings, manual sync
// runs, sync history, balance credits and earnings reconciliation.
type AdminHandler struct {
	settings  *service.SettingsService
	sync      *service.SyncService
	catalog   *service.CatalogService
	ledger    *service.LedgerService
	referrals *service.ReferralService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(settings *service.SettingsService, sync *service.SyncService, catalog *service.CatalogService, ledger *service.LedgerService, referrals *service.ReferralService) *AdminHandler {
	return &AdminHandler{settings: settings, sync: sync, catalog: catalog, ledger: ledger, referrals: referrals}
}

// GetSettings handles GET /api/v1/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Settings retrieved", settings)
}

type updateSettingsRequest struct {
	Referral                        models.DiscountConfig `json:"referral" binding:"required"`
	Regular                         models.DiscountConfig `json:"regular" binding:"required"`
	TransactionCommissionPercentage decimal.Decimal       `json:"transactionCommissionPercentage"`
	MinimumWithdrawal               decimal.Decimal       `json:"minimumWithdrawal"`
	SyncEnabled                     bool                  `json:"syncEnabled"`
	UpdatedBy                       string                `json:"updatedBy" binding:"required"`
}

// UpdateSettings handles PUT /api/v1/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	settings := &models.PricingSettings{
		Referral:                        req.Referral,
		Regular:                         req.Regular,
		TransactionCommissionPercentage: req.TransactionCommissionPercentage,
		MinimumWithdrawal:               req.MinimumWithdrawal,
		SyncEnabled:                     req.SyncEnabled,
		UpdatedBy:                       req.UpdatedBy,
	}
	if err := h.settings.Update(c.Request.Context(), settings); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	utils.Success(c, http.StatusOK, "Settings updated", settings)
}

// TriggerSync handles POST /api/v1/admin/sync
func (h *AdminHandler) TriggerSync(c *gin.Context) {
	result, err := h.sync.Run(c.Request.Context(), "manual")
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Catalog sync finished", result)
}

// ListSyncLogs handles GET /api/v1/admin/sync-logs
func (h *AdminHandler) ListSyncLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	logs, err := h.catalog.SyncLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Sync logs retrieved", logs)
}

type creditRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	AddedBy     string          `json:"addedBy" binding:"required"`
}

// CreditBalance handles POST /api/v1/admin/users/:id/credit
func (h *AdminHandler) CreditBalance(c *gin.Context) {
	var req creditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	trx, err := h.ledger.Credit(c.Request.Context(), c.Param("id"), req.Amount, req.Description, req.AddedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Balance credited", trx)
}

// ReconcileEarnings handles POST /api/v1/admin/users/:id/reconcile-earnings
func (h *AdminHandler) ReconcileEarnings(c *gin.Context) {
	total, err := h.referrals.ReconcileEarnings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Earnings reconciled", gin.H{"totalEarnings": total})
}
