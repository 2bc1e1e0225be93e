package account

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	labors := r.Group("/labors")
	{
		labors.GET("", h.ListLabors)   // GET /api/v1/labors?skill=Plumber
		labors.GET("/:id", h.GetLabor) // GET /api/v1/labors/:id
	}
}
