package review

import "laborhub/internal/domain"

var (
	ErrAlreadyReviewed = domain.NewConflict("REVIEW_EXISTS", "Review already submitted for this booking.")
	ErrInvalidRating   = domain.NewValidation("Rating must be between 1 and 5.")
	ErrBookingNotDone  = domain.NewPrecondition("BOOKING_NOT_COMPLETED", "Only completed bookings can be reviewed.")
	ErrNotBookingOwner = domain.NewForbidden("You can only review your own bookings.")
	ErrCommentTooLong  = domain.NewValidation("Comment must be at most 2000 characters.")
)
