package handler

import (
	"net/http"

	"pricemaster/internal/dto"
	"pricemaster/internal/service"

	"github.com/gin-gonic/gin"
)

// ImportsHandler serves batched price imports.
type ImportsHandler struct {
	svc service.ImportService
}

func NewImportsHandler(svc service.ImportService) *ImportsHandler {
	return &ImportsHandler{svc: svc}
}

// Import godoc
// @Summary      Validate and optionally apply a batch of price rows
// @Description  Rows are validated independently; errors carry 1-based row indices and field names. With validate_only=true no write happens and the preview is exactly what an apply would commit. Write-time uniqueness races are reported as row-level errors, not batch failures.
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        request body dto.BatchImportRequest true "Rows plus validate_only flag (max 10000 rows)"
// @Success      200 {object} dto.BatchImportResponse
// @Failure      400 {object} apierror.APIError "malformed body or oversized batch"
// @Router       /v1/prices/import [post]
func (h *ImportsHandler) Import(c *gin.Context) {
	var req dto.BatchImportRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.ImportPrices(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
