package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/assignment-organizer/internal/dto"
	"github.com/noah-isme/assignment-organizer/internal/middleware"
	"github.com/noah-isme/assignment-organizer/internal/models"
	"github.com/noah-isme/assignment-organizer/pkg/response"
)

type classService interface {
	Directory(ctx context.Context, student models.Student) (*models.ClassDirectory, error)
	Create(ctx context.Context, caller models.Student, req dto.CreateClassRequest) (*models.Class, error)
	Enroll(ctx context.Context, student models.Student, name string) error
	Unenroll(ctx context.Context, student models.Student, name string) error
	RosterFor(ctx context.Context, caller models.Student, name string) ([]models.Student, error)
}

// ClassHandler exposes the class directory and enrollment endpoints.
type ClassHandler struct {
	service classService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// Directory godoc
// @Summary List classes
// @Description Every class, split into enrolled and available.
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) Directory(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	dir, err := h.service.Directory(c.Request.Context(), *student)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dir)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	class, err := h.service.Create(c.Request.Context(), *student, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Enroll godoc
// @Summary Enroll in a class
// @Tags Classes
// @Param name path string true "Class name"
// @Success 204
// @Router /classes/{name}/enroll [post]
func (h *ClassHandler) Enroll(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	if err := h.service.Enroll(c.Request.Context(), *student, c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unenroll godoc
// @Summary Leave a class
// @Tags Classes
// @Param name path string true "Class name"
// @Success 204
// @Router /classes/{name}/enroll [delete]
func (h *ClassHandler) Unenroll(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	if err := h.service.Unenroll(c.Request.Context(), *student, c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Roster godoc
// @Summary Students enrolled in a class
// @Tags Classes
// @Produce json
// @Param name path string true "Class name"
// @Success 200 {object} response.Envelope
// @Router /classes/{name}/roster [get]
func (h *ClassHandler) Roster(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	students, err := h.service.RosterFor(c.Request.Context(), *student, c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(students))
	response.JSON(c, http.StatusOK, students, middleware.ExtractMeta(c))
}
