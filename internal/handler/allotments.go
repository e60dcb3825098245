package handler

import (
	"net/http"

	"avyyan/internal/dto"
	"avyyan/internal/service"

	"github.com/gin-gonic/gin"
)

type AllotmentsHandler struct{ svc service.AllotmentService }

func NewAllotmentsHandler(svc service.AllotmentService) *AllotmentsHandler {
	return &AllotmentsHandler{svc: svc}
}

// Create godoc
// @Summary      Allot an order item to a machine
// @Description  Computes the counter and roll breakdown server-side and queues the allotment sheet PDF.
// @Tags         allotments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateAllotmentRequest true "Allotment"
// @Success      201  {object} dto.AllotmentResponse
// @Failure      409  {object} apierror.APIError "Order not confirmed"
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/allotments [post]
func (h *AllotmentsHandler) Create(c *gin.Context) {
	var req dto.CreateAllotmentRequest
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

func (h *AllotmentsHandler) Get(c *gin.Context) {
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

// ListBySalesOrder serves GET /v1/sales-orders/:id/allotments.
func (h *AllotmentsHandler) ListBySalesOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListBySalesOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AllotmentsHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeAllotmentStatusRequest
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

// DownloadSheet godoc
// @Summary      Download the allotment sheet PDF
// @Tags         allotments
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Allotment ID"
// @Success      200
// @Failure      404 {object} apierror.APIError "Sheet not generated yet"
// @Router       /v1/allotments/{id}/sheet [get]
func (h *AllotmentsHandler) DownloadSheet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	path, err := h.svc.SheetPath(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "allotment-"+id.String()+".pdf")
}
