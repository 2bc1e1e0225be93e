package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laborhub/internal/domain"
	"laborhub/internal/domain/subscription"
	"laborhub/internal/middleware"
	"laborhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking godoc
// @Summary Request a booking with a labor
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateBookingRequest true "Booking request"
// @Router /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	caller := middleware.UserID(c)
	if req.CustomerID == 0 {
		req.CustomerID = caller
	}
	if req.CustomerID != caller {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only book for yourself")
		return
	}

	b, err := h.service.Create(c.Request.Context(), req.toInput())
	if err != nil {
		var le *subscription.LimitError
		if errors.As(err, &le) {
			response.ErrorWithDetails(c, http.StatusForbidden, "BOOKING_LIMIT_EXCEEDED", le.Error(), gin.H{
				"current":    le.Current,
				"limit":      le.Limit,
				"plan":       le.PlanName,
				"upgrade_to": le.UpgradeTo,
			})
			return
		}
		// slot conflicts are reported as a plain 400 on creation
		if de, ok := domain.AsError(err); ok && de.Kind == domain.KindConflict {
			response.Error(c, http.StatusBadRequest, de.Code, de.Message)
			return
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"booking":     ToResponse(b),
		"totalAmount": b.TotalAmount,
	})
}

// ListCustomerBookings godoc
// @Summary List a customer's bookings
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Customer ID"
// @Router /bookings/customer/{id} [get]
func (h *Handler) ListCustomerBookings(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	list, err := h.service.ListForCustomer(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponses(list))
}

// ListLaborBookings godoc
// @Summary List a labor's bookings
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Labor ID"
// @Router /bookings/labor/{id} [get]
func (h *Handler) ListLaborBookings(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	list, err := h.service.ListForLabor(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponses(list))
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), middleware.UserID(c), middleware.Role(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(b))
}

// GetAmount godoc
// @Summary Re-quote a booking with the customer's current company fee
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Booking ID"
// @Router /bookings/{id}/amount [get]
func (h *Handler) GetAmount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	q, err := h.service.Amount(c.Request.Context(), middleware.UserID(c), middleware.Role(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// UpdateStatus godoc
// @Summary Accept, complete or decline a booking
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param body body UpdateStatusRequest true "Requested status"
// @Router /bookings/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), middleware.UserID(c), id, req.Status, req.DeclineReason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(b))
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) ClearHistory(c *gin.Context) {
	n, err := h.service.ClearHistory(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": n})
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
