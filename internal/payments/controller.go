package payments

import (
	"errors"
	"net/http"

	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// VerifyPayment handles POST /api/v1/payments/verify
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	var req VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := c.service.Verify(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSuchIntent):
			response.Error(ctx, http.StatusNotFound, "No payment intent for this order", nil)
		case errors.Is(err, ErrSignatureInvalid):
			response.Error(ctx, http.StatusBadRequest, "Payment signature verification failed", nil)
		case errors.Is(err, ErrAlreadyFinalized):
			response.Error(ctx, http.StatusConflict, "Payment already finalized", nil)
		case errors.Is(err, ErrReservationExpired):
			response.Error(ctx, http.StatusGone, "Reservation expired before payment completed; the charge has been refunded", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to verify payment", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Payment verified", result)
}
