package subscription

import (
	"errors"

	"laborhub/internal/domain"
)

var (
	ErrNoActiveSubscription = &domain.Error{Kind: domain.KindForbidden, Code: "NO_ACTIVE_SUBSCRIPTION", Message: "No active subscription found."}
	ErrBookingLimitExceeded = &domain.Error{Kind: domain.KindForbidden, Code: "BOOKING_LIMIT_EXCEEDED", Message: "Booking limit exceeded."}
	ErrInvalidPlan          = &domain.Error{Kind: domain.KindValidation, Code: "INVALID_PLAN", Message: "Invalid plan type."}
	ErrSubscriptionNotFound = domain.NewNotFound("Subscription not found.")

	errCounterMissing = errors.New("subscription: booking counter not configured")
)

// LimitError carries rich context for UI display
type LimitError struct {
	Err       error
	Current   int
	Limit     int
	PlanName  string
	UpgradeTo string
}

func (e *LimitError) Error() string { return e.Err.Error() }
func (e *LimitError) Unwrap() error { return e.Err }
