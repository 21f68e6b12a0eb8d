package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cgpa-planner-api/internal/dto"
	"github.com/noah-isme/cgpa-planner-api/internal/middleware"
	"github.com/noah-isme/cgpa-planner-api/internal/models"
	appErrors "github.com/noah-isme/cgpa-planner-api/pkg/errors"
	"github.com/noah-isme/cgpa-planner-api/pkg/response"
)

type recordService interface {
	Save(ctx context.Context, userID string, req dto.SaveRecordRequest) (*dto.SavedRecord, error)
	Get(ctx context.Context, userID, id string) (*models.SemesterRecord, error)
	List(ctx context.Context, userID string, query dto.ListRecordsQuery) ([]models.SemesterRecord, *models.Pagination, error)
	Summary(ctx context.Context, userID, scale string) (*models.CGPASummary, bool, error)
}

// RecordHandler exposes saved semester records.
type RecordHandler struct {
	records recordService
}

// NewRecordHandler constructs the handler.
func NewRecordHandler(records recordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// Save godoc
// @Summary Compute and save a semester
// @Tags Records
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param payload body dto.SaveRecordRequest true "Semester record"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /users/{userId}/records [post]
func (h *RecordHandler) Save(c *gin.Context) {
	var req dto.SaveRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	saved, err := h.records.Save(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, saved)
}

// List godoc
// @Summary List saved semesters
// @Tags Records
// @Produce json
// @Param userId path string true "User ID"
// @Param academicYear query string false "Academic year"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/records [get]
func (h *RecordHandler) List(c *gin.Context) {
	var query dto.ListRecordsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	records, pagination, err := h.records.List(c.Request.Context(), c.Param("userId"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get a saved semester
// @Tags Records
// @Produce json
// @Param userId path string true "User ID"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId}/records/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	record, err := h.records.Get(c.Request.Context(), c.Param("userId"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Summary godoc
// @Summary CGPA over saved semesters
// @Tags Records
// @Produce json
// @Param userId path string true "User ID"
// @Param scale query string false "Scale, defaults to the configured scale"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/summary [get]
func (h *RecordHandler) Summary(c *gin.Context) {
	var query dto.SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	summary, hit, err := h.records.Summary(c.Request.Context(), c.Param("userId"), query.Scale)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}
