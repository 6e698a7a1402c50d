package promos

import (
	"showbook/internal/shared/config"
	"showbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPromoRoutes registers promo code routes
func SetupPromoRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	promoGroup := rg.Group("/promos")
	promoGroup.Use(middleware.JWTAuthWithConfig(cfg))
	{
		// Any authenticated user can preview a discount
		promoGroup.POST("/validate", controller.ValidatePromo)

		// Admin management
		admin := promoGroup.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", controller.CreatePromo)
			admin.GET("", controller.ListPromos)
			admin.GET("/:id", controller.GetPromo)
			admin.DELETE("/:id", controller.DeactivatePromo)
		}
	}
}
