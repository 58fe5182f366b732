package events

import (
	"errors"
	"net/http"

	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateEvent handles POST /api/v1/events
func (c *Controller) CreateEvent(ctx *gin.Context) {
	organizerID, ok := middleware.UserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", validationDetails(err))
		return
	}

	event, err := c.service.CreateEvent(ctx.Request.Context(), organizerID, req)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to create event", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Event created", event.ToResponse())
}

// PublishEvent handles POST /api/v1/events/:id/publish
func (c *Controller) PublishEvent(ctx *gin.Context) {
	organizerID, ok := middleware.UserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	event, err := c.service.PublishEvent(ctx.Request.Context(), eventID, organizerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
		case errors.Is(err, ErrNotOwner):
			response.Error(ctx, http.StatusForbidden, "Event does not belong to this organizer", nil)
		case errors.Is(err, ErrNotPublishable):
			response.Error(ctx, http.StatusConflict, "Event cannot be published in its current state", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to publish event", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Event published", event.ToResponse())
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	event, err := c.service.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get event", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Event retrieved", event.ToResponse())
}

// ListPublished handles GET /api/v1/events
func (c *Controller) ListPublished(ctx *gin.Context) {
	limit, offset := middleware.Pagination(ctx, 20)

	evts, total, err := c.service.ListPublished(ctx.Request.Context(), limit, offset)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list events", err.Error())
		return
	}

	items := make([]EventResponse, 0, len(evts))
	for i := range evts {
		items = append(items, evts[i].ToResponse())
	}

	response.Success(ctx, http.StatusOK, "Events retrieved", gin.H{
		"events": items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// ListMine handles GET /api/v1/organizers/events
func (c *Controller) ListMine(ctx *gin.Context) {
	organizerID, ok := middleware.UserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	evts, err := c.service.ListByOrganizer(ctx.Request.Context(), organizerID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list events", err.Error())
		return
	}

	items := make([]EventResponse, 0, len(evts))
	for i := range evts {
		items = append(items, evts[i].ToResponse())
	}

	response.Success(ctx, http.StatusOK, "Events retrieved", gin.H{"events": items})
}

// validationDetails extracts field-level messages from binding errors
func validationDetails(err error) interface{} {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		return details
	}
	return err.Error()
}
