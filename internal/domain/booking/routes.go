package booking

import (
	"github.com/gin-gonic/gin"

	"laborhub/internal/middleware"
)

// RegisterRoutes expects r to be behind JWTAuth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", middleware.CustomerOnly(), h.CreateBooking)
		bookings.GET("/customer/:id", middleware.CustomerOnly(), middleware.RequireSelf("id"), h.ListCustomerBookings)
		bookings.GET("/labor/:id", middleware.LaborOnly(), middleware.RequireSelf("id"), h.ListLaborBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/amount", h.GetAmount)
		bookings.PATCH("/:id/status", middleware.LaborOnly(), h.UpdateStatus)
		bookings.DELETE("/labor/history/clear", middleware.LaborOnly(), h.ClearHistory)
		bookings.DELETE("/:id", middleware.CustomerOnly(), h.DeleteBooking)
	}
}
