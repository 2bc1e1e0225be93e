package payment

import (
	"github.com/gin-gonic/gin"

	"laborhub/internal/middleware"
)

// RegisterProtectedRoutes expects r to be behind JWTAuth.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.POST("", middleware.CustomerOnly(), h.CreatePayment)
		payments.PATCH("/:paymentId/paid", middleware.CustomerOnly(), h.MarkPaid)
		payments.GET("/:paymentId", h.GetPayment)
	}
}

// RegisterInternalRoutes expects r to be behind InternalTokenAuth.
func (h *Handler) RegisterInternalRoutes(r *gin.RouterGroup) {
	r.POST("/bookings/:id/declined", h.BookingDeclined)
}
