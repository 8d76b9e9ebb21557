package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/assignment-organizer/internal/dto"
	"github.com/noah-isme/assignment-organizer/internal/models"
	"github.com/noah-isme/assignment-organizer/pkg/response"
)

const (
	// PersonalClassParam addresses the personal calendar in toggle routes.
	PersonalClassParam = "personal"

	syllabusFormField = "file"
	maxSyllabusBytes  = 1 << 20
)

type assignmentService interface {
	Create(ctx context.Context, caller *models.Student, req dto.CreateAssignmentRequest) (*models.Event, error)
	DeleteOrCheckOff(ctx context.Context, caller *models.Student, className, eventID string) (*dto.ToggleAssignmentResult, error)
	ImportSyllabus(ctx context.Context, caller *models.Student, className string, r io.Reader) (*dto.SyllabusImportResult, error)
}

// AssignmentHandler exposes assignment creation, removal and syllabus import.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(svc assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Create godoc
// @Summary Create an assignment
// @Description Leave className empty for the personal calendar.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	event, err := h.service.Create(c.Request.Context(), student, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Toggle godoc
// @Summary Delete or check off an assignment
// @Description Owners delete the event, everyone else toggles their check mark.
// @Tags Assignments
// @Produce json
// @Param class path string true "Class name, or personal"
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{class}/{eventId}/toggle [post]
func (h *AssignmentHandler) Toggle(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	className := c.Param("class")
	if className == PersonalClassParam {
		className = ""
	}
	result, err := h.service.DeleteOrCheckOff(c.Request.Context(), student, className, c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ImportSyllabus godoc
// @Summary Import a syllabus
// @Description CSV lines of name,YYYY-MM-DD,estimate sent as the body or as multipart field "file".
// @Tags Assignments
// @Accept text/csv
// @Accept multipart/form-data
// @Produce json
// @Param name path string true "Class name"
// @Success 202 {object} response.Envelope
// @Router /classes/{name}/syllabus [post]
func (h *AssignmentHandler) ImportSyllabus(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSyllabusBytes)

	body := io.Reader(c.Request.Body)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile(syllabusFormField)
		if err != nil {
			response.Error(c, invalidPayload(err))
			return
		}
		file, err := header.Open()
		if err != nil {
			response.Error(c, invalidPayload(err))
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.service.ImportSyllabus(c.Request.Context(), student, c.Param("name"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}
