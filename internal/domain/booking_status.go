package domain

import (
	"fmt"
	"strings"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingAccepted  BookingStatus = "Accepted"
	BookingOngoing   BookingStatus = "Ongoing"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

// BookingAction is an event that drives a booking transition.
type BookingAction string

const (
	ActionAccept    BookingAction = "accept"
	ActionDecline   BookingAction = "decline"
	ActionStartWork BookingAction = "start_work"
	ActionComplete  BookingAction = "complete"
)

// bookingTransitions is the complete table. Anything missing is rejected.
// Ongoing->Ongoing and Cancelled->Cancelled are idempotent re-assertions.
var bookingTransitions = map[BookingStatus]map[BookingAction]BookingStatus{
	BookingPending: {
		ActionAccept:  BookingAccepted,
		ActionDecline: BookingCancelled,
	},
	BookingAccepted: {
		ActionStartWork: BookingOngoing,
		ActionDecline:   BookingCancelled,
	},
	BookingOngoing: {
		ActionStartWork: BookingOngoing,
		ActionComplete:  BookingCompleted,
		ActionDecline:   BookingCancelled,
	},
	BookingCancelled: {
		ActionDecline: BookingCancelled,
	},
	BookingCompleted: {},
}

// IsActive reports whether the booking still occupies its labor's slot.
func (s BookingStatus) IsActive() bool {
	return s != BookingCompleted && s != BookingCancelled
}

func (s BookingStatus) Can(action BookingAction) bool {
	_, ok := bookingTransitions[s][action]
	return ok
}

// Next returns the status reached by applying action, or a precondition error.
func (s BookingStatus) Next(action BookingAction) (BookingStatus, error) {
	next, ok := bookingTransitions[s][action]
	if !ok {
		return s, NewPrecondition("INVALID_TRANSITION",
			fmt.Sprintf("Cannot %s a booking that is %s.", strings.ReplaceAll(string(action), "_", " "), s))
	}
	return next, nil
}

// ActionForRequestedStatus maps the status a labor asks for to the action that produces it.
// Only Accepted, Completed and Cancelled can be requested directly.
func ActionForRequestedStatus(requested string) (BookingAction, error) {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case "accepted":
		return ActionAccept, nil
	case "completed":
		return ActionComplete, nil
	case "cancelled":
		return ActionDecline, nil
	}
	return "", NewValidation("Invalid status")
}
