package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cgpa-planner-api/internal/dto"
	"github.com/noah-isme/cgpa-planner-api/internal/service"
	appErrors "github.com/noah-isme/cgpa-planner-api/pkg/errors"
	"github.com/noah-isme/cgpa-planner-api/pkg/response"
)

type transcriptRenderer interface {
	Render(ctx context.Context, userID string, query dto.TranscriptQuery) (*service.Transcript, error)
}

// TranscriptHandler streams rendered transcripts.
type TranscriptHandler struct {
	transcripts transcriptRenderer
}

// NewTranscriptHandler constructs the handler.
func NewTranscriptHandler(transcripts transcriptRenderer) *TranscriptHandler {
	return &TranscriptHandler{transcripts: transcripts}
}

// Download godoc
// @Summary Download a transcript
// @Tags Records
// @Produce text/csv
// @Produce application/pdf
// @Param userId path string true "User ID"
// @Param format query string false "csv or pdf"
// @Param scale query string false "Scale"
// @Success 200 {file} file
// @Failure 422 {object} response.Envelope
// @Router /users/{userId}/transcript [get]
func (h *TranscriptHandler) Download(c *gin.Context) {
	var query dto.TranscriptQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	doc, err := h.transcripts.Render(c.Request.Context(), c.Param("userId"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Payload)
}
