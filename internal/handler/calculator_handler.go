package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cgpa-planner-api/internal/dto"
	appErrors "github.com/noah-isme/cgpa-planner-api/pkg/errors"
	"github.com/noah-isme/cgpa-planner-api/pkg/response"
)

type calculator interface {
	Scales() []dto.ScaleResult
	Semester(req dto.SemesterCalculationRequest) (*dto.SemesterResult, error)
	CGPA(req dto.CGPACalculationRequest) (*dto.CGPAResult, error)
	Plan(req dto.PlanRequest) (*dto.PlanResult, error)
}

// CalculatorHandler exposes stateless GPA computations.
type CalculatorHandler struct {
	calculator calculator
}

// NewCalculatorHandler constructs the handler.
func NewCalculatorHandler(calculator calculator) *CalculatorHandler {
	return &CalculatorHandler{calculator: calculator}
}

// Scales godoc
// @Summary List grading scales
// @Tags Calculations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scales [get]
func (h *CalculatorHandler) Scales(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.calculator.Scales(), nil)
}

// Semester godoc
// @Summary Compute a semester GPA
// @Description Skipped course lines are listed under rejected. gpa is null when no valid entries remain.
// @Tags Calculations
// @Accept json
// @Produce json
// @Param payload body dto.SemesterCalculationRequest true "Semester courses"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calculations/semester [post]
func (h *CalculatorHandler) Semester(c *gin.Context) {
	var req dto.SemesterCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	result, err := h.calculator.Semester(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CGPA godoc
// @Summary Compute a CGPA across sessions
// @Tags Calculations
// @Accept json
// @Produce json
// @Param payload body dto.CGPACalculationRequest true "Sessions of semesters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calculations/cgpa [post]
func (h *CalculatorHandler) CGPA(c *gin.Context) {
	var req dto.CGPACalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	result, err := h.calculator.CGPA(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Plan godoc
// @Summary Plan the GPAs needed for a target CGPA
// @Description An unreachable target returns feasibility INFEASIBLE together with the best achievable CGPA.
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.PlanRequest true "Planning request"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /plans [post]
func (h *CalculatorHandler) Plan(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	result, err := h.calculator.Plan(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
