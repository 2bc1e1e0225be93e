package review

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laborhub/internal/middleware"
	"laborhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type CreateReviewRequest struct {
	BookingID int64  `json:"bookingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// Create godoc
// @Summary  Review a completed booking
// @Tags     Reviews
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    body body CreateReviewRequest true "Review"
// @Router   /reviews [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	rv, err := h.service.Create(c.Request.Context(), middleware.UserID(c), CreateInput{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rv)
}

func (h *Handler) GetByLabor(c *gin.Context) {
	laborID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || laborID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid labor id")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	res, err := h.service.ListForLabor(c.Request.Context(), laborID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
