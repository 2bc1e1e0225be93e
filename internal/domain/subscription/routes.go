package subscription

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers routes that don't require authentication
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/subscriptions/plans", h.GetPlans)
}

// RegisterCustomerRoutes expects auth, customer role and self checks in mw.
func RegisterCustomerRoutes(r *gin.RouterGroup, h *Handler, mw ...gin.HandlerFunc) {
	sub := r.Group("/subscriptions/:customerId", mw...)
	{
		sub.GET("", h.GetSubscription)
		sub.PUT("", h.Upgrade)
		sub.GET("/usage", h.GetUsage)
	}
}

// RegisterInternalRoutes is for the registration service.
func RegisterInternalRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/customers/:customerId/subscription", h.AssignDefault)
}
