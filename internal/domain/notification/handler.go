package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laborhub/internal/domain"
	"laborhub/internal/middleware"
	"laborhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type CreateNotificationRequest struct {
	RecipientID int64           `json:"recipientId" binding:"required"`
	Role        string          `json:"role" binding:"required"`
	Message     string          `json:"message" binding:"required"`
	Severity    domain.Severity `json:"type"`
	Link        string          `json:"link"`
}

// GetNotifications godoc
// @Summary     List the caller's notifications
// @Description Latest notifications first, with the unread count.
// @Tags        Notifications
// @Security    BearerAuth
// @Param       limit  query int false "Max items (default 20, max 100)"
// @Param       offset query int false "Offset"
// @Router      /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	res, err := h.service.List(c.Request.Context(), middleware.UserID(c), middleware.Role(c), limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification id")
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), id, middleware.UserID(c), middleware.Role(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "is_read": true})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	n, err := h.service.MarkAllRead(c.Request.Context(), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}

// CreateNotification lets other services write to a user's inbox. Errors are returned to the caller.
func (h *Handler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	n, err := h.service.Notify(c.Request.Context(), Input{
		RecipientID: req.RecipientID,
		Role:        req.Role,
		Message:     req.Message,
		Severity:    req.Severity,
		Link:        req.Link,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, n)
}
