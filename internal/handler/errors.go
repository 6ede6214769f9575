package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// respondError maps service errors onto the response envelope. Anything
// unrecognized is a 500 with a generic message; the cause stays in the log.
func respondError(c *gin.Context, err error) {
	var belowMin *utils.BelowMinimumError
	if errors.As(err, &belowMin) {
		utils.ErrorWithDetails(c, http.StatusUnprocessableEntity, "BELOW_MINIMUM_WITHDRAWAL",
			"Unpaid commissions are below the minimum withdrawal", gin.H{
				"total":     belowMin.Total,
				"minimum":   belowMin.Minimum,
				"shortfall": belowMin.Shortfall,
			})
		return
	}

	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, utils.ErrCodeNotFound):
		utils.Error(c, http.StatusNotFound, "REFERRAL_CODE_NOT_FOUND", "Referral code not found")
	case errors.Is(err, utils.ErrCodeInactive):
		utils.Error(c, http.StatusUnprocessableEntity, "REFERRAL_CODE_INACTIVE", "Referral code is inactive")
	case errors.Is(err, utils.ErrCodeExpired):
		utils.Error(c, http.StatusUnprocessableEntity, "REFERRAL_CODE_EXPIRED", "Referral code has expired")
	case errors.Is(err, utils.ErrSelfReferral):
		utils.Error(c, http.StatusUnprocessableEntity, "SELF_REFERRAL", "You cannot redeem your own referral code")
	case errors.Is(err, utils.ErrCodeAlreadyExists):
		utils.Error(c, http.StatusConflict, "REFERRAL_CODE_ALREADY_EXISTS", "Owner already has an active referral code")
	case errors.Is(err, utils.ErrCodeAlreadyUsed):
		utils.Error(c, http.StatusConflict, "REFERRAL_CODE_ALREADY_USED", "A referral code was already redeemed for this account")
	case errors.Is(err, utils.ErrNothingToWithdraw):
		utils.Error(c, http.StatusUnprocessableEntity, "NOTHING_TO_WITHDRAW", "No unpaid commissions to withdraw")
	case errors.Is(err, utils.ErrSyncDisabled):
		utils.Error(c, http.StatusConflict, "SYNC_DISABLED", "Catalog sync is disabled in settings")
	default:
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
