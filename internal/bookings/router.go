package bookings

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures booking routes. All of them require auth.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth *middleware.Auth) {
	book := rg.Group("/events/:id/tickets/:ticketId")
	book.Use(auth.JWT())
	{
		book.POST("/book", controller.CreateBooking)
	}

	bookings := rg.Group("/bookings")
	bookings.Use(auth.JWT())
	{
		bookings.GET("/:id", controller.GetBooking)
		bookings.POST("/:id/cancel", controller.CancelBooking)
	}

	rg.GET("/users/bookings", auth.JWT(), controller.GetUserBookings)
}
