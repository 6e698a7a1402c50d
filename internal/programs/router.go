package programs

import (
	"showbook/internal/shared/config"
	"showbook/internal/shared/middleware"
	"showbook/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupProgramRoutes registers movie and event catalog routes
func SetupProgramRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	programGroup := rg.Group("/programs")
	{
		// Public browsing
		programGroup.GET("/movies", controller.ListMovies)
		programGroup.GET("/movies/:id", controller.GetMovie)
		programGroup.GET("/events", controller.ListEvents)
		programGroup.GET("/events/:id", controller.GetEvent)

		// Catalog management
		protected := programGroup.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg))
		protected.Use(middleware.RequireRoles(string(users.RoleOrganizer), string(users.RoleAdmin)))
		{
			protected.POST("/movies", controller.CreateMovie)
			protected.POST("/events", controller.CreateEvent)
		}
	}
}
