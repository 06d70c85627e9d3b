package handler

import (
	"net/http"
	"strconv"

	"pricemaster/internal/apierror"
	"pricemaster/internal/dto"
	"pricemaster/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricesHandler serves manual price entry and per-item price history.
type PricesHandler struct {
	svc service.PriceService
}

func NewPricesHandler(svc service.PriceService) *PricesHandler {
	return &PricesHandler{svc: svc}
}

// Create godoc
// @Summary      Create a single price record manually
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePriceRequest true "Price record"
// @Success      201 {object} dto.PriceResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError "price already exists for this item and date"
// @Router       /v1/prices [post]
func (h *PricesHandler) Create(c *gin.Context) {
	var req dto.CreatePriceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListByItem godoc
// @Summary      Price records of one item, newest first
// @Tags         prices
// @Produce      json
// @Param        id    path  string true  "Item UUID"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Records per page (default 50, max 200)"
// @Success      200 {object} dto.PriceListResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id}/prices [get]
func (h *PricesHandler) ListByItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.Validation("item id is not a valid UUID"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, svcErr := h.svc.ListByItem(c.Request.Context(), itemID, dto.PriceListFilter{Page: page, Limit: limit})
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}
