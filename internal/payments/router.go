package payments

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures payment verification routes
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller, auth *middleware.Auth) {
	payments := rg.Group("/payments")
	payments.Use(auth.JWT())
	{
		payments.POST("/verify", controller.VerifyPayment)
	}
}
