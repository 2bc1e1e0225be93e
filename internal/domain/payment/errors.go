package payment

import "laborhub/internal/domain"

var (
	ErrPaymentNotFound    = domain.NewNotFound("Payment not found.")
	ErrNotOwner           = domain.NewForbidden("You do not have access to this payment.")
	ErrBookingNotAccepted = domain.NewPrecondition("BOOKING_NOT_ACCEPTED", "Booking must be accepted before payment.")
	ErrInvalidDuration    = domain.NewValidation("Duration must be greater than 0.")
	ErrInvalidMethod      = domain.NewValidation("Payment method must be cash, card or online.")
	ErrCardRequired       = domain.NewValidation("Card details are required for card payments.")
	ErrPaymentExists      = domain.NewConflict("PAYMENT_EXISTS", "Payment already exists for this booking.")
	ErrCashNotCompleted   = domain.NewPrecondition("BOOKING_NOT_COMPLETED", "Cash payment can only be settled after the booking is completed.")
)
