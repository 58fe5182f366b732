package tickets

import (
	"errors"
	"net/http"

	"ticketly/internal/events"
	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreatePool handles POST /api/v1/events/:id/tickets
func (c *Controller) CreatePool(ctx *gin.Context) {
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

	var req CreatePoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	pool, err := c.service.CreatePool(ctx.Request.Context(), organizerID, eventID, req)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrNotFound):
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
		case errors.Is(err, ErrNotOwner):
			response.Error(ctx, http.StatusForbidden, "Event does not belong to this organizer", nil)
		case errors.Is(err, ErrEventPublished):
			response.Error(ctx, http.StatusConflict, "Cannot create pools after the event is published", nil)
		case errors.Is(err, ErrPriceTypeConflict):
			response.Error(ctx, http.StatusBadRequest, "Unit price must be zero for FREE pools and positive otherwise", nil)
		case errors.Is(err, ErrDuplicateType):
			response.Error(ctx, http.StatusConflict, "A pool of this type already exists for the event", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to create ticket pool", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Ticket pool created", pool.ToResponse())
}

// ListByEvent handles GET /api/v1/events/:id/tickets
func (c *Controller) ListByEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	pools, err := c.service.ListByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list ticket pools", err.Error())
		return
	}

	items := make([]PoolResponse, 0, len(pools))
	for i := range pools {
		items = append(items, pools[i].ToResponse())
	}

	response.Success(ctx, http.StatusOK, "Ticket pools retrieved", gin.H{"tickets": items})
}
