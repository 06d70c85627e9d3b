package handler

import (
	"net/http"

	"pricemaster/internal/dto"
	"pricemaster/internal/service"

	"github.com/gin-gonic/gin"
)

// CostsHandler serves BOM cost resolution.
type CostsHandler struct {
	svc service.CostService
}

func NewCostsHandler(svc service.CostService) *CostsHandler {
	return &CostsHandler{svc: svc}
}

// Calculate godoc
// @Summary      Calculate the rolled-up cost of an item as of a date
// @Description  Resolves the item's multi-level BOM depth-first, summing quantity-weighted child costs. Leaf items missing an applicable price are reported in missing_prices and contribute zero. Labor and overhead percentages apply once at the root.
// @Tags         costs
// @Accept       json
// @Produce      json
// @Param        request body dto.CalculateCostRequest true "Calculation parameters"
// @Success      200 {object} dto.CostResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError "cyclic graph or depth limit exceeded"
// @Router       /v1/costs/calculate [post]
func (h *CostsHandler) Calculate(c *gin.Context) {
	var req dto.CalculateCostRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Calculate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
