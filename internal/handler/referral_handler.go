package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HOLYLABS972/esim-main-sub002/internal/service"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// ReferralHandler serves referral code issuing, validation, redemption and
// the owner stats view.
type ReferralHandler struct {
	referrals *service.ReferralService
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(referrals *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

type createCodeRequest struct {
	OwnerID    string `json:"ownerId" binding:"required"`
	OwnerEmail string `json:"ownerEmail" binding:"required,email"`
}

// CreateCode handles POST /api/v1/referrals
func (h *ReferralHandler) CreateCode(c *gin.Context) {
	var req createCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	code, err := h.referrals.CreateCode(c.Request.Context(), req.OwnerID, req.OwnerEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Referral code ready", code)
}

// ValidateCode handles GET /api/v1/referrals/:code
func (h *ReferralHandler) ValidateCode(c *gin.Context) {
	code, err := h.referrals.Validate(c.Request.Context(), normalizeCode(c.Param("code")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Referral code is valid", gin.H{
		"code":      code.Code,
		"isActive":  code.IsActive,
		"expiresAt": code.ExpiresAt,
	})
}

type redeemRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// RedeemCode handles POST /api/v1/referrals/:code/redeem
func (h *ReferralHandler) RedeemCode(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.referrals.Redeem(c.Request.Context(), normalizeCode(c.Param("code")), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Referral code redeemed", nil)
}

// ActiveCode handles GET /api/v1/users/:id/referral-code
func (h *ReferralHandler) ActiveCode(c *gin.Context) {
	code, err := h.referrals.ActiveCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Referral code retrieved", code)
}

// Stats handles GET /api/v1/users/:id/referral-stats
func (h *ReferralHandler) Stats(c *gin.Context) {
	stats, err := h.referrals.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Referral stats retrieved", stats)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
