package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/assignment-organizer/internal/middleware"
	"github.com/noah-isme/assignment-organizer/internal/models"
	"github.com/noah-isme/assignment-organizer/pkg/response"
)

type todoLister interface {
	List(ctx context.Context, student models.Student, className string) ([]models.TodoItem, error)
}

// TodoHandler serves the to-do view.
type TodoHandler struct {
	service todoLister
}

// NewTodoHandler constructs a to-do handler.
func NewTodoHandler(svc todoLister) *TodoHandler {
	return &TodoHandler{service: svc}
}

// List godoc
// @Summary Upcoming assignments with check state and due labels
// @Tags Todo
// @Produce json
// @Param class query string false "Restrict to one enrolled class"
// @Success 200 {object} response.Envelope
// @Router /todo [get]
func (h *TodoHandler) List(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	items, err := h.service.List(c.Request.Context(), *student, c.Query("class"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []models.TodoItem{}
	}
	middleware.SetMeta(c, "count", len(items))
	response.JSON(c, http.StatusOK, items, middleware.ExtractMeta(c))
}
