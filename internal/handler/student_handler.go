package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/assignment-organizer/internal/dto"
	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
	"github.com/noah-isme/assignment-organizer/pkg/response"
)

type studentService interface {
	Profile(ctx context.Context, claims *models.JWTClaims) (*models.StudentProfile, error)
	SetColor(ctx context.Context, student *models.Student, className string, req dto.SetColorRequest) error
	Color(ctx context.Context, student models.Student, className string) (string, error)
}

// StudentHandler exposes the caller's profile and color settings.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Me godoc
// @Summary Current student profile
// @Description Creates the student and the personal calendar on first use.
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me [get]
func (h *StudentHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	profile, err := h.service.Profile(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// SetColor godoc
// @Summary Set a calendar color
// @Description Without a class name the personal color is changed.
// @Tags Students
// @Accept json
// @Param name path string false "Class name"
// @Param payload body dto.SetColorRequest true "Color payload"
// @Success 204
// @Router /colors/{name} [put]
func (h *StudentHandler) SetColor(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	var req dto.SetColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	if err := h.service.SetColor(c.Request.Context(), student, c.Param("name"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Color godoc
// @Summary Resolve a calendar color
// @Tags Students
// @Produce json
// @Param name path string false "Class name"
// @Success 200 {object} response.Envelope
// @Router /colors/{name} [get]
func (h *StudentHandler) Color(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	color, err := h.service.Color(c.Request.Context(), *student, c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ColorResponse{ClassName: c.Param("name"), Color: color})
}
