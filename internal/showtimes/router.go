package showtimes

import (
	"showbook/internal/shared/config"
	"showbook/internal/shared/middleware"
	"showbook/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupShowtimeRoutes registers showtime and seat availability routes
func SetupShowtimeRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	showtimeGroup := rg.Group("/showtimes")
	{
		// Public browsing
		showtimeGroup.GET("", controller.ListShowtimes)
		showtimeGroup.GET("/:id", controller.GetShowtime)
		showtimeGroup.GET("/:id/seats", controller.GetAvailability)

		// Schedule management
		protected := showtimeGroup.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg))
		protected.Use(middleware.RequireRoles(string(users.RoleOrganizer), string(users.RoleAdmin)))
		{
			protected.POST("", controller.CreateShowtime)
			protected.DELETE("/:id", controller.DeactivateShowtime)
		}
	}
}
