package domain

import (
	"strings"
	"time"
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodOnline PaymentMethod = "online"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodCash, MethodCard, MethodOnline:
		return m, true
	}
	return "", false
}

// RequiresCard reports whether the method is settled by a card charge at creation.
func (m PaymentMethod) RequiresCard() bool {
	return m == MethodCard || m == MethodOnline
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment is the one payment record of a booking.
type Payment struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	BookingID  int64 `gorm:"not null;uniqueIndex" json:"booking_id"`
	LaborID    int64 `gorm:"not null;index" json:"labor_id"`
	CustomerID int64 `gorm:"not null;index" json:"customer_id"`

	PaymentType PaymentType `gorm:"size:16" json:"payment_type"`
	Rate        float64     `json:"rate"`
	Duration    float64     `json:"duration"`
	CompanyFee  float64     `json:"company_fee"`
	TotalAmount float64     `json:"total_amount"`

	PaymentMethod  PaymentMethod `gorm:"size:16;not null" json:"payment_method"`
	Status         PaymentStatus `gorm:"size:16;not null;index" json:"status"`
	TransactionRef string        `gorm:"size:64" json:"transaction_ref,omitempty"`
	CardLast4      string        `gorm:"size:4" json:"card_last4,omitempty"`

	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) IsPaid() bool { return p.Status == PaymentPaid }

// Settle marks the payment paid. Paying twice is a conflict, paying a cancelled one a precondition failure.
func (p *Payment) Settle(at time.Time) error {
	switch p.Status {
	case PaymentPaid:
		return NewConflict("PAYMENT_ALREADY_PAID", "Payment already completed.")
	case PaymentCancelled:
		return NewPrecondition("PAYMENT_CANCELLED", "Payment has been cancelled.")
	}
	p.Status = PaymentPaid
	p.PaidAt = &at
	return nil
}

// Cancel is allowed from any status and is idempotent.
func (p *Payment) Cancel(at time.Time) {
	if p.Status == PaymentCancelled {
		return
	}
	p.Status = PaymentCancelled
	p.CancelledAt = &at
}

// CompletionGate decides whether a booking with this payment may be completed.
// A nil payment blocks completion. Cash payments pass and must be settled in the same write.
func CompletionGate(p *Payment) (settleCash bool, err error) {
	if p == nil {
		return false, NewPrecondition("PAYMENT_NOT_FOUND",
			"Payment not found. Customer must complete payment before the booking can be marked as completed.")
	}
	switch {
	case p.PaymentMethod == MethodCash:
		if p.Status == PaymentCancelled {
			return false, NewPrecondition("PAYMENT_CANCELLED", "Payment has been cancelled.")
		}
		return p.Status != PaymentPaid, nil
	case !p.IsPaid():
		return false, NewPrecondition("PAYMENT_NOT_COMPLETED",
			"Card payment not completed. Cannot mark booking as completed.")
	}
	return false, nil
}
