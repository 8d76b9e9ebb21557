package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/assignment-organizer/internal/dto"
	"github.com/noah-isme/assignment-organizer/internal/middleware"
	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
	"github.com/noah-isme/assignment-organizer/pkg/response"
)

type eventReader interface {
	GetEvents(ctx context.Context, student models.Student, filter models.EventFilter) ([]models.Event, error)
	GetFutureEvents(ctx context.Context, student models.Student, className string) ([]models.Event, error)
}

type feedRenderer interface {
	Render(ctx context.Context, student models.Student) (string, error)
}

// EventHandler serves the aggregated calendar views.
type EventHandler struct {
	events    eventReader
	feed      feedRenderer
	validator *validator.Validate
}

// NewEventHandler constructs an event handler.
func NewEventHandler(events eventReader, feed feedRenderer, validate *validator.Validate) *EventHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &EventHandler{events: events, feed: feed, validator: validate}
}

// List godoc
// @Summary List events
// @Description Personal events first, then each enrolled class by name.
// @Tags Events
// @Produce json
// @Param day query int false "Day of month"
// @Param month query int false "Month"
// @Param year query int false "Year"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	var query dto.EventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}

	events, err := h.events.GetEvents(c.Request.Context(), *student, models.EventFilter{Day: query.Day, Month: query.Month, Year: query.Year})
	if err != nil {
		response.Error(c, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	middleware.SetMeta(c, "count", len(events))
	response.JSON(c, http.StatusOK, events, middleware.ExtractMeta(c))
}

// Upcoming godoc
// @Summary List events that have not ended
// @Tags Events
// @Produce json
// @Param class query string false "Restrict to one enrolled class"
// @Success 200 {object} response.Envelope
// @Router /events/upcoming [get]
func (h *EventHandler) Upcoming(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	var query dto.UpcomingQuery
	_ = c.ShouldBindQuery(&query)

	events, err := h.events.GetFutureEvents(c.Request.Context(), *student, query.Class)
	if err != nil {
		response.Error(c, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	middleware.SetMeta(c, "count", len(events))
	response.JSON(c, http.StatusOK, events, middleware.ExtractMeta(c))
}

// Feed godoc
// @Summary iCalendar feed of upcoming events
// @Tags Events
// @Produce text/calendar
// @Param token query string false "Access token for clients without headers"
// @Success 200 {string} string
// @Router /events/feed.ics [get]
func (h *EventHandler) Feed(c *gin.Context) {
	student := requireStudent(c)
	if student == nil {
		return
	}
	body, err := h.feed.Render(c.Request.Context(), *student)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
