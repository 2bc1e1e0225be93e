package booking

import "laborhub/internal/domain"

var (
	ErrBookingNotFound = domain.NewNotFound("Booking not found.")
	ErrLaborNotFound   = domain.NewNotFound("Labor not found.")
	ErrCustomerMissing = domain.NewNotFound("Customer not found.")
	ErrNotOwner        = domain.NewForbidden("You do not have access to this booking.")
	ErrSlotTaken       = domain.NewConflict("BOOKING_CONFLICT", "Labor is already booked for this date and time.")
	ErrStaleBooking    = domain.NewConflict("BOOKING_MODIFIED", "Booking was modified by another request. Please retry.")
	ErrSlotBusy        = domain.NewConflict("BOOKING_IN_PROGRESS", "Another booking for this slot is being processed. Please retry.")
)
