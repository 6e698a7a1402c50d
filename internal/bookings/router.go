package bookings

import (
	"showbook/internal/shared/config"
	"showbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes registers booking, payment and check-in routes.
// criticalLimit is the tighter rate limit applied to seat-claiming
// endpoints; pass nil to skip it.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config, criticalLimit gin.HandlerFunc) {
	bookingGroup := rg.Group("/bookings")
	bookingGroup.Use(middleware.JWTAuthWithConfig(cfg))
	{
		if criticalLimit != nil {
			bookingGroup.POST("", criticalLimit, controller.CreateBooking)
		} else {
			bookingGroup.POST("", controller.CreateBooking)
		}

		bookingGroup.GET("", controller.GetUserBookings)
		bookingGroup.GET("/:id", controller.GetBooking)
		bookingGroup.GET("/:id/qr", controller.TicketQR)
		bookingGroup.POST("/:id/payment/order", controller.CreatePaymentOrder)
		bookingGroup.POST("/:id/payment/verify", controller.VerifyPayment)
		bookingGroup.POST("/:id/abandon", controller.CancelPendingBooking)
		bookingGroup.DELETE("/:id", controller.CancelBooking)

		// Gate staff scanning
		staff := bookingGroup.Group("")
		staff.Use(middleware.RequireStaff())
		{
			staff.POST("/checkin", controller.CheckIn)
		}

		// Admin oversight
		admin := bookingGroup.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/all", controller.GetAllBookings)
			admin.DELETE("/:id", controller.AdminCancelBooking)
		}
	}
}
