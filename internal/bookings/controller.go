package bookings

import (
	"errors"
	"net/http"

	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"
	"ticketly/internal/tickets"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/events/:id/tickets/:ticketId/book
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	ticketID, err := uuid.Parse(ctx.Param("ticketId"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := c.service.CreateBooking(ctx.Request.Context(), userID, eventID, ticketID, req)
	if err != nil {
		switch {
		case errors.Is(err, tickets.ErrPoolNotFound):
			response.Error(ctx, http.StatusNotFound, "Ticket pool not found", nil)
		case errors.Is(err, tickets.ErrTicketEventMismatch):
			response.Error(ctx, http.StatusBadRequest, "Ticket does not belong to this event", nil)
		case errors.Is(err, ErrEventNotPublished):
			response.Error(ctx, http.StatusConflict, "Event is not open for booking", nil)
		case errors.Is(err, ErrSeatsUnavailable):
			response.Error(ctx, http.StatusConflict, "Not enough seats available", nil)
		case errors.Is(err, ErrFreeTicketCapExceeded):
			response.Error(ctx, http.StatusConflict, "Free ticket limit reached for this pool", nil)
		case errors.Is(err, ErrGatewayUnavailable):
			response.Error(ctx, http.StatusServiceUnavailable, "Payment gateway unavailable, please retry", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to create booking", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking created", result)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrNotOwner):
			response.Error(ctx, http.StatusForbidden, "Booking does not belong to this user", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to get booking", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved", booking.ToResponse())
}

// GetUserBookings handles GET /api/v1/users/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	limit, offset := middleware.Pagination(ctx, 20)

	bookings, total, err := c.service.GetUserBookings(ctx.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get bookings", err.Error())
		return
	}

	items := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, bookings[i].ToResponse())
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved", gin.H{
		"bookings": items,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	if err := c.service.CancelBooking(ctx.Request.Context(), bookingID, userID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrNotOwner):
			response.Error(ctx, http.StatusForbidden, "Booking does not belong to this user", nil)
		case errors.Is(err, ErrCannotCancel):
			response.Error(ctx, http.StatusConflict, "Confirmed bookings cannot be cancelled", nil)
		case errors.Is(err, ErrAlreadyFinalized):
			response.Error(ctx, http.StatusConflict, "Booking already finalized", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to cancel booking", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Booking cancelled", nil)
}
