package handler

import (
	"net/http"

	"avyyan/internal/dto"
	"avyyan/internal/textile"

	"github.com/gin-gonic/gin"
)

// CalcHandler exposes the textile formulas for live form recompute. Stateless.
type CalcHandler struct{}

func NewCalcHandler() *CalcHandler { return &CalcHandler{} }

// Counter godoc
// @Summary      Machine counter
// @Description  (169300 × count × roll_per_kg) / (needle × feeder × stitch_length), two decimals. "0.00" when a divisor is zero.
// @Tags         calc
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CounterRequest true "Machine parameters"
// @Success      200  {object} dto.CounterResponse
// @Router       /v1/calc/counter [post]
func (h *CalcHandler) Counter(c *gin.Context) {
	var req dto.CounterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, dto.CounterResponse{Counter: textile.Counter(textile.CounterInput{
		Count:        req.Count,
		RollPerKg:    req.RollPerKg,
		Needle:       req.Needle,
		Feeder:       req.Feeder,
		StitchLength: req.StitchLength,
	})})
}

// Rolls godoc
// @Summary      Roll breakdown of a quantity
// @Tags         calc
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RollsRequest true "Quantity and roll weight"
// @Success      200  {object} textile.RollBreakdown
// @Failure      422  {object} apierror.ValidationError "roll_per_kg must be > 0"
// @Router       /v1/calc/rolls [post]
func (h *CalcHandler) Rolls(c *gin.Context) {
	var req dto.RollsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, textile.DecomposeRolls(req.ActualQuantity, req.RollPerKg))
}

func (h *CalcHandler) Parse(c *gin.Context) {
	var req dto.ParseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, dto.ParseResponse{
		Description:    textile.ParseDescription(req.Description),
		ActualQuantity: textile.ExtractActualQuantity(req.Description),
	})
}
