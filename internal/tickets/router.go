package tickets

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures ticket pool routes under events
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller, auth *middleware.Auth) {
	// Public pool listing per event
	rg.GET("/events/:id/tickets", controller.ListByEvent)

	// Organizer-facing pool creation
	manage := rg.Group("/events/:id/tickets")
	manage.Use(auth.JWT(), auth.RequireRoles("ORGANIZER", "ADMIN"))
	{
		manage.POST("", controller.CreatePool)
	}
}
