package booking

import (
	"fmt"
	"strings"
	"time"

	"laborhub/internal/domain"
)

// DefaultDeclineReason is stored when a labor declines without a reason.
const DefaultDeclineReason = "Declined by labor"

// Event is the broker payload for booking events.
type Event struct {
	BookingID   int64                `json:"booking_id"`
	CustomerID  int64                `json:"customer_id"`
	LaborID     int64                `json:"labor_id"`
	Status      domain.BookingStatus `json:"status"`
	TotalAmount float64              `json:"total_amount"`
	Reason      string               `json:"reason,omitempty"`
}

func eventOf(b *domain.Booking) Event {
	return Event{
		BookingID:   b.ID,
		CustomerID:  b.CustomerID,
		LaborID:     b.LaborID,
		Status:      b.Status,
		TotalAmount: b.TotalAmount,
		Reason:      b.DeclineReason,
	}
}

func laborName(b *domain.Booking) string {
	if b.Labor != nil && b.Labor.Name != "" {
		return b.Labor.Name
	}
	return "The labor"
}

func slot(b *domain.Booking) string {
	return fmt.Sprintf("%s on %s at %s", b.Service, b.BookingDate, b.BookingTime)
}

func createdEffects(b *domain.Booking) []domain.Effect {
	return []domain.Effect{
		domain.Notify(b.LaborID, domain.RoleLabor,
			fmt.Sprintf("New booking request from %s for %s.", b.CustomerName, slot(b)),
			domain.SeverityInfo, fmt.Sprintf("/bookings/%d", b.ID)),
		domain.Publish(domain.EventBookingCreated, b.ID, eventOf(b)),
	}
}

func acceptedEffects(b *domain.Booking) []domain.Effect {
	return []domain.Effect{
		domain.Notify(b.CustomerID, domain.RoleCustomer,
			fmt.Sprintf("%s accepted your booking for %s. Please proceed to payment.", laborName(b), slot(b)),
			domain.SeveritySuccess, fmt.Sprintf("/payments/new?bookingId=%d", b.ID)),
		domain.Publish(domain.EventBookingAccepted, b.ID, eventOf(b)),
	}
}

func completedEffects(b *domain.Booking, settled *domain.Payment, reviewLink string) []domain.Effect {
	effects := []domain.Effect{
		domain.Notify(b.CustomerID, domain.RoleCustomer,
			fmt.Sprintf("%s marked your booking for %s as completed. Tell us how it went!", laborName(b), slot(b)),
			domain.SeveritySuccess, reviewLink),
		domain.Publish(domain.EventBookingCompleted, b.ID, eventOf(b)),
	}
	if settled != nil {
		effects = append(effects,
			domain.Email(b.CustomerEmail, "Payment received",
				fmt.Sprintf("Hi %s,\n\nYour cash payment of %.2f for booking #%d has been recorded as paid.\n",
					b.CustomerName, settled.TotalAmount, b.ID)),
			domain.Publish(domain.EventPaymentPaid, settled.ID, settled),
		)
	}
	return effects
}

// DeclineEffects informs the customer that a booking was cancelled and, when a
// payment existed, that it was cancelled too.
func DeclineEffects(b *domain.Booking, cancelled *domain.Payment) []domain.Effect {
	msg := fmt.Sprintf("%s declined your booking for %s. Reason: %s", laborName(b), slot(b), b.DeclineReason)
	body := fmt.Sprintf("Hi %s,\n\n%s\n", b.CustomerName, msg)
	if cancelled != nil {
		body += fmt.Sprintf("\nThe related payment of %.2f has been cancelled.\n", cancelled.TotalAmount)
	}

	effects := []domain.Effect{
		domain.Notify(b.CustomerID, domain.RoleCustomer, msg, domain.SeverityWarning, fmt.Sprintf("/bookings/%d", b.ID)),
		domain.Email(b.CustomerEmail, "Your booking was declined", body),
		domain.Publish(domain.EventBookingCancelled, b.ID, eventOf(b)),
	}
	if cancelled != nil {
		effects = append(effects, domain.Publish(domain.EventPaymentCancelled, cancelled.ID, cancelled))
	}
	return effects
}

// PaymentCancelledEffects is sent when only the payment changed.
func PaymentCancelledEffects(b *domain.Booking, p *domain.Payment) []domain.Effect {
	return []domain.Effect{
		domain.Email(b.CustomerEmail, "Payment cancelled",
			fmt.Sprintf("Hi %s,\n\nThe payment of %.2f for booking #%d has been cancelled.\n", b.CustomerName, p.TotalAmount, b.ID)),
		domain.Publish(domain.EventPaymentCancelled, p.ID, p),
	}
}

func deletedEffects(b *domain.Booking) []domain.Effect {
	return []domain.Effect{
		domain.Notify(b.LaborID, domain.RoleLabor,
			fmt.Sprintf("%s withdrew the booking for %s.", b.CustomerName, slot(b)),
			domain.SeverityInfo, ""),
		domain.Publish(domain.EventBookingDeleted, b.ID, eventOf(b)),
	}
}

// Decline cancels b and its payment in memory. It reports whether anything changed.
func Decline(b *domain.Booking, p *domain.Payment, reason string, at time.Time) (bookingChanged, paymentChanged bool, err error) {
	if reason = strings.TrimSpace(reason); reason == "" {
		reason = DefaultDeclineReason
	}
	if b.Status != domain.BookingCancelled {
		if err := b.Apply(domain.ActionDecline); err != nil {
			return false, false, err
		}
		b.DeclineReason = reason
		bookingChanged = true
	}
	if p != nil && p.Status != domain.PaymentCancelled {
		p.Cancel(at)
		paymentChanged = true
	}
	return bookingChanged, paymentChanged, nil
}
