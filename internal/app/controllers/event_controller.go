package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/techfest/internal/app/models/dto"
	"github.com/yigit/techfest/internal/app/services"
	"github.com/yigit/techfest/internal/middleware"
)

// EventController handles event catalog requests
type EventController struct {
	eventService *services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService *services.EventService) *EventController {
	return &EventController{
		eventService: eventService,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Get every event of the fest with its capacity counters and free slots
// @Tags events
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	events, err := c.eventService.ListEvents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewEventResponses(events))
}

// GetEvent godoc
// @Summary Get an event
// @Description Get a single event by slug; known aliases resolve to their canonical event
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events/{slug} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	event, err := c.eventService.GetEvent(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewEventResponse(event))
}
