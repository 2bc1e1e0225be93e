package payment

import (
	"time"

	"laborhub/internal/domain"
)

// CardDetails are checked at the HTTP boundary. Only the last four digits are kept.
type CardDetails struct {
	CardNumber     string `json:"cardNumber" validate:"required,numeric,min=12,max=19"`
	CardholderName string `json:"cardholderName" validate:"required,max=255"`
	Expiry         string `json:"expiry" validate:"required,card_expiry"`
	CVV            string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

func (c *CardDetails) Last4() string {
	if c == nil || len(c.CardNumber) < 4 {
		return ""
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}

type CreatePaymentRequest struct {
	BookingID     int64        `json:"bookingId" validate:"required,gt=0"`
	Duration      float64      `json:"duration" validate:"required,gt=0"`
	PaymentMethod string       `json:"paymentMethod" validate:"required,oneof=cash card online"`
	CardDetails   *CardDetails `json:"cardDetails" validate:"omitempty"`
}

type DeclinedRequest struct {
	Reason string `json:"reason"`
}

type PaymentResponse struct {
	ID             int64                `json:"id"`
	BookingID      int64                `json:"booking_id"`
	LaborID        int64                `json:"labor_id"`
	CustomerID     int64                `json:"customer_id"`
	PaymentType    domain.PaymentType   `json:"payment_type"`
	Rate           float64              `json:"rate"`
	Duration       float64              `json:"duration"`
	CompanyFee     float64              `json:"company_fee"`
	TotalAmount    float64              `json:"total_amount"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method"`
	Status         domain.PaymentStatus `json:"status"`
	TransactionRef string               `json:"transaction_ref,omitempty"`
	CardLast4      string               `json:"card_last4,omitempty"`
	PaidAt         *time.Time           `json:"paid_at,omitempty"`
	CancelledAt    *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

func toResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		BookingID:      p.BookingID,
		LaborID:        p.LaborID,
		CustomerID:     p.CustomerID,
		PaymentType:    p.PaymentType,
		Rate:           p.Rate,
		Duration:       p.Duration,
		CompanyFee:     p.CompanyFee,
		TotalAmount:    p.TotalAmount,
		PaymentMethod:  p.PaymentMethod,
		Status:         p.Status,
		TransactionRef: p.TransactionRef,
		CardLast4:      p.CardLast4,
		PaidAt:         p.PaidAt,
		CancelledAt:    p.CancelledAt,
		CreatedAt:      p.CreatedAt,
	}
}
