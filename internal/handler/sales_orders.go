package handler

import (
	"net/http"

	"avyyan/internal/dto"
	"avyyan/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesOrdersHandler struct{ svc service.SalesOrderService }

func NewSalesOrdersHandler(svc service.SalesOrderService) *SalesOrdersHandler {
	return &SalesOrdersHandler{svc: svc}
}

// Create godoc
// @Summary      Create a sales order
// @Description  Knitting parameters missing from an item are filled from its description.
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSalesOrderRequest true "Sales order"
// @Success      201  {object} dto.SalesOrderResponse
// @Failure      409  {object} apierror.APIError "Duplicate voucher number"
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/sales-orders [post]
func (h *SalesOrdersHandler) Create(c *gin.Context) {
	var req dto.CreateSalesOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List sales orders
// @Tags         sales-orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "draft | confirmed | in_production | completed | cancelled"
// @Param        party  query string false "Party name contains"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 50)"
// @Success      200    {object} dto.SalesOrderListResponse
// @Router       /v1/sales-orders [get]
func (h *SalesOrdersHandler) List(c *gin.Context) {
	var filter dto.SalesOrderFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesOrdersHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesOrdersHandler) UpdateHeader(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSalesOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateHeader(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesOrdersHandler) AddItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.SalesOrderItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ChangeStatus godoc
// @Summary      Transition a sales order
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Sales order ID"
// @Param        body body dto.ChangeOrderStatusRequest true "Target status"
// @Success      200  {object} dto.SalesOrderResponse
// @Failure      409  {object} apierror.APIError "Transition not allowed"
// @Router       /v1/sales-orders/{id}/status [patch]
func (h *SalesOrdersHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
