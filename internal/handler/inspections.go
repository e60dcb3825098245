package handler

import (
	"net/http"

	"avyyan/internal/dto"
	"avyyan/internal/service"

	"github.com/gin-gonic/gin"
)

type InspectionsHandler struct{ svc service.InspectionService }

func NewInspectionsHandler(svc service.InspectionService) *InspectionsHandler {
	return &InspectionsHandler{svc: svc}
}

// Record godoc
// @Summary      Record a roll inspection
// @Description  Grades the roll from defect points per 100 m². Inspecting the last roll completes the allotment.
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecordInspectionRequest true "Inspection"
// @Success      201  {object} dto.InspectionResponse
// @Failure      409  {object} apierror.APIError "Roll already inspected or allotment done"
// @Router       /v1/inspections [post]
func (h *InspectionsHandler) Record(c *gin.Context) {
	var req dto.RecordInspectionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	inspectorID, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), inspectorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListByAllotment serves GET /v1/allotments/:id/inspections.
func (h *InspectionsHandler) ListByAllotment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListByAllotment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InspectionsHandler) Summary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
