package venues

import (
	"showbook/internal/shared/config"
	"showbook/internal/shared/middleware"
	"showbook/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupVenueRoutes registers venue and screen routes
func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	venueGroup := rg.Group("/venues")
	{
		// Public browsing
		venueGroup.GET("", controller.ListVenues)
		venueGroup.GET("/:id", controller.GetVenue)

		// Organizer management
		protected := venueGroup.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg))
		protected.Use(middleware.RequireRoles(string(users.RoleOrganizer), string(users.RoleAdmin)))
		{
			protected.POST("", controller.CreateVenue)
			protected.POST("/:id/screens", controller.AddScreen)
			protected.DELETE("/:id", controller.DeactivateVenue)
		}
	}
}
