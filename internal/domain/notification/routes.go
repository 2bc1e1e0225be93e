package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes expects protected to be behind JWTAuth.
func RegisterRoutes(protected *gin.RouterGroup, handler *Handler) {
	notifGroup := protected.Group("/notifications")
	{
		notifGroup.GET("", handler.GetNotifications)
		notifGroup.PATCH("/read-all", handler.MarkAllAsRead)
		notifGroup.PATCH("/:id/read", handler.MarkAsRead)
	}
}

// RegisterInternalRoutes expects internal to be behind InternalTokenAuth.
func RegisterInternalRoutes(internal *gin.RouterGroup, handler *Handler) {
	internal.POST("/notifications", handler.CreateNotification)
}

func RegisterWSRoutes(r gin.IRoutes, ws *WSHandler) {
	r.GET("/ws/notifications", ws.HandleWebSocket)
}
