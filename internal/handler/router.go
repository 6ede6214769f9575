package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HOLYLABS972/esim-main-sub002/internal/middleware"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Catalog    *CatalogHandler
	Pricing    *PricingHandler
	Referral   *ReferralHandler
	Withdrawal *WithdrawalHandler
	Webhook    *WebhookHandler
	Admin      *AdminHandler
}

// NewRouter builds the gin engine with all routes mounted. Admin routes
// and the purchase webhook sit behind the static API key.
func NewRouter(h Handlers, adminAPIKey string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())

	startedAt := time.Now()
	router.GET("/health", func(c *gin.Context) {
		utils.Success(c, http.StatusOK, "OK", gin.H{
			"status": "healthy",
			"uptime": time.Since(startedAt).String(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog/countries", h.Catalog.ListCountries)
		v1.GET("/catalog/countries/:code/plans", h.Catalog.ListPlans)
		v1.GET("/plans/:slug/quote", h.Pricing.QuotePlan)

		v1.POST("/referrals", h.Referral.CreateCode)
		v1.GET("/referrals/:code", h.Referral.ValidateCode)
		v1.POST("/referrals/:code/redeem", h.Referral.RedeemCode)

		v1.GET("/users/:id/referral-code", h.Referral.ActiveCode)
		v1.GET("/users/:id/referral-stats", h.Referral.Stats)
		v1.GET("/users/:id/balance", h.Withdrawal.Balance)
		v1.GET("/users/:id/withdrawals", h.Withdrawal.History)
		v1.POST("/users/:id/withdrawals", h.Withdrawal.Withdraw)
	}

	webhooks := v1.Group("/webhooks", middleware.APIKeyMiddleware(adminAPIKey))
	{
		webhooks.POST("/purchase-completed", h.Webhook.PurchaseCompleted)
	}

	admin := v1.Group("/admin", middleware.APIKeyMiddleware(adminAPIKey))
	{
		admin.GET("/settings", h.Admin.GetSettings)
		admin.PUT("/settings", h.Admin.UpdateSettings)
		admin.POST("/sync", h.Admin.TriggerSync)
		admin.GET("/sync-logs", h.Admin.ListSyncLogs)
		admin.POST("/users/:id/credit", h.Admin.CreditBalance)
		admin.POST("/users/:id/reconcile-earnings", h.Admin.ReconcileEarnings)
	}

	return router
}
