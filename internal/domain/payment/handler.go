package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"laborhub/internal/middleware"
	"laborhub/internal/pkg/response"
	"laborhub/internal/pkg/validator"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

// CreatePayment godoc
// @Summary      Pay for an accepted booking
// @Description  Card and online payments are charged at once. Cash stays pending until the job is completed.
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body CreatePaymentRequest true "Payment payload"
// @Router       /payments [post]
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if errs := validator.Validate(req); errs != nil {
		h.log.Debug("payment request rejected", zap.Any("fields", errs))
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment details", errs)
		return
	}

	p, err := h.service.CreatePayment(c.Request.Context(), middleware.UserID(c), CreateInput{
		BookingID: req.BookingID,
		Duration:  req.Duration,
		Method:    req.PaymentMethod,
		Card:      req.CardDetails,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toResponse(p))
}

// MarkPaid godoc
// @Summary      Mark a payment as paid
// @Tags         Payments
// @Security     BearerAuth
// @Produce      json
// @Param        paymentId path int true "Payment ID"
// @Router       /payments/{paymentId}/paid [patch]
func (h *Handler) MarkPaid(c *gin.Context) {
	id, ok := idParam(c, "paymentId")
	if !ok {
		return
	}
	p, err := h.service.MarkPaid(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(p))
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := idParam(c, "paymentId")
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), middleware.UserID(c), middleware.Role(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(p))
}

// BookingDeclined is called by collaborators that cancel a booking outside this service.
func (h *Handler) BookingDeclined(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req DeclinedRequest
	// body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.HandleDeclined(c.Request.Context(), id, req.Reason); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking_id": id, "cancelled": true})
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
