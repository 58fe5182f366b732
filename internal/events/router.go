package events

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event-related routes
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller, auth *middleware.Auth) {
	// Public event discovery
	public := rg.Group("/events")
	{
		public.GET("", controller.ListPublished)
		public.GET("/:id", controller.GetEvent)
	}

	// Organizer-facing event management
	manage := rg.Group("/events")
	manage.Use(auth.JWT(), auth.RequireRoles("ORGANIZER", "ADMIN"))
	{
		manage.POST("", controller.CreateEvent)
		manage.POST("/:id/publish", controller.PublishEvent)
	}

	organizers := rg.Group("/organizers")
	organizers.Use(auth.JWT(), auth.RequireRoles("ORGANIZER", "ADMIN"))
	{
		organizers.GET("/events", controller.ListMine)
	}
}
