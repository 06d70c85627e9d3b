package handler

import (
	"net/http"

	"pricemaster/internal/dto"
	"pricemaster/internal/service"

	"github.com/gin-gonic/gin"
)

// DuplicatesHandler serves the consistency audit: duplicate scan and cleanup.
type DuplicatesHandler struct {
	detector service.DuplicateService
	cleanup  service.CleanupService
}

func NewDuplicatesHandler(detector service.DuplicateService, cleanup service.CleanupService) *DuplicatesHandler {
	return &DuplicatesHandler{detector: detector, cleanup: cleanup}
}

// Scan godoc
// @Summary      Scan for price records violating the one-record-per-(item,date) invariant
// @Description  An empty result with total_duplicates=0 is the expected steady-state outcome on a store with a working uniqueness constraint.
// @Tags         duplicates
// @Produce      json
// @Success      200 {object} dto.DuplicateScanResponse
// @Failure      500 {object} apierror.APIError
// @Router       /v1/prices/duplicates [get]
func (h *DuplicatesHandler) Scan(c *gin.Context) {
	resp, err := h.detector.Scan(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cleanup godoc
// @Summary      Plan or execute duplicate cleanup under a resolution strategy
// @Description  dry_run=true returns the identical plan a real run would execute without mutating anything; dry_run=false deletes the plan in one transaction.
// @Tags         duplicates
// @Accept       json
// @Produce      json
// @Param        request body dto.CleanupRequest true "Strategy (keep_latest|keep_oldest|custom), optional custom_keep_ids, dry_run flag"
// @Success      200 {object} dto.CleanupResponse
// @Failure      400 {object} apierror.APIError "unknown strategy or empty custom_keep_ids"
// @Failure      500 {object} apierror.APIError
// @Router       /v1/prices/duplicates/cleanup [post]
func (h *DuplicatesHandler) Cleanup(c *gin.Context) {
	var req dto.CleanupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.cleanup.Cleanup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
