package review

import (
	"github.com/gin-gonic/gin"

	"laborhub/internal/middleware"
)

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/labors/:id/reviews", h.GetByLabor)
	}
	if protected != nil {
		protected.POST("/reviews", middleware.CustomerOnly(), h.Create)
	}
}
