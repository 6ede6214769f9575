package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/service"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// CatalogHandler serves storefront catalog reads.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCountries handles GET /api/v1/catalog/countries
func (h *CatalogHandler) ListCountries(c *gin.Context) {
	countries, err := h.catalog.Countries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Countries retrieved", countries)
}

// ListPlans handles GET /api/v1/catalog/countries/:code/plans
//
// The optional "class" query selects the discount class the prices are
// quoted for; anything other than "referral" prices as regular.
func (h *CatalogHandler) ListPlans(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	class := discountClassFromQuery(c)

	plans, err := h.catalog.PlansForCountry(c.Request.Context(), code, class)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Plans retrieved", plans)
}

func discountClassFromQuery(c *gin.Context) models.DiscountClass {
	if c.Query("class") == string(models.ClassReferral) {
		return models.ClassReferral
	}
	return models.ClassRegular
}
