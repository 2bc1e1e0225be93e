package subscription

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"laborhub/internal/pkg/response"
)

// Handler exposes plans and a customer's own subscription.
type Handler struct {
	service *Service
	now     func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// GetPlans godoc
// @Summary List subscription plans
// @Tags Subscriptions
// @Produce json
// @Router /subscriptions/plans [get]
func (h *Handler) GetPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Plans())
}

// GetSubscription godoc
// @Summary Get a customer's active subscription
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param customerId path int true "Customer ID"
// @Router /subscriptions/{customerId} [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	customerID, ok := customerParam(c)
	if !ok {
		return
	}

	sub, err := h.service.GetActive(c.Request.Context(), customerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if sub == nil {
		response.FromError(c, ErrSubscriptionNotFound)
		return
	}
	response.Success(c, http.StatusOK, h.service.toResponse(sub))
}

// Upgrade godoc
// @Summary Change a customer's plan
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param body body UpgradeRequest true "Target plan"
// @Router /subscriptions/{customerId} [put]
func (h *Handler) Upgrade(c *gin.Context) {
	customerID, ok := customerParam(c)
	if !ok {
		return
	}

	var req UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "planType is required")
		return
	}

	sub, err := h.service.Upgrade(c.Request.Context(), customerID, req.PlanType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.service.toResponse(sub))
}

// GetUsage godoc
// @Summary Bookings used this month against the plan limit
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param customerId path int true "Customer ID"
// @Router /subscriptions/{customerId}/usage [get]
func (h *Handler) GetUsage(c *gin.Context) {
	customerID, ok := customerParam(c)
	if !ok {
		return
	}

	usage, err := h.service.Usage(c.Request.Context(), customerID, h.now())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, usage)
}

// AssignDefault is called by the registration service after a customer signs up.
func (h *Handler) AssignDefault(c *gin.Context) {
	customerID, ok := customerParam(c)
	if !ok {
		return
	}

	sub, created, err := h.service.AssignDefault(c.Request.Context(), customerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, h.service.toResponse(sub))
}

func customerParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer id")
		return 0, false
	}
	return id, true
}

// IsLimitError reports whether err came from an exhausted quota.
func IsLimitError(err error) bool {
	var le *LimitError
	return errors.As(err, &le)
}
