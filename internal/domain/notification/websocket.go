package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laborhub/internal/middleware"
	"laborhub/internal/pkg/response"
)

type WSHandler struct {
	hub    *Hub
	tokens middleware.TokenValidator
}

func NewWSHandler(hub *Hub, tokens middleware.TokenValidator) *WSHandler {
	return &WSHandler{hub: hub, tokens: tokens}
}

// HandleWebSocket authenticates with ?token= since browsers cannot set headers on upgrade.
//
// Endpoint: GET /ws/notifications?token=JWT
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	h.hub.ServeHTTP(c.Writer, c.Request, claims.Role, claims.UserID)
}
