package domain

import "time"

// EffectKind selects the channel an effect is delivered on.
type EffectKind string

const (
	EffectNotify  EffectKind = "notify"
	EffectEmail   EffectKind = "email"
	EffectPublish EffectKind = "publish"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event names published to the broker.
const (
	EventBookingCreated   = "booking.created"
	EventBookingAccepted  = "booking.accepted"
	EventBookingCompleted = "booking.completed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingDeleted   = "booking.deleted"
	EventPaymentCreated   = "payment.created"
	EventPaymentPaid      = "payment.paid"
	EventPaymentCancelled = "payment.cancelled"
	EventReviewPosted     = "review.posted"
)

// Effect is a side effect produced by a committed transition. It is executed
// by a dispatcher after the write succeeds and its failure never undoes the write.
type Effect struct {
	Kind EffectKind `json:"kind"`

	// notify
	RecipientID   int64    `json:"recipient_id,omitempty"`
	RecipientRole string   `json:"recipient_role,omitempty"`
	Message       string   `json:"message,omitempty"`
	Severity      Severity `json:"severity,omitempty"`
	Link          string   `json:"link,omitempty"`

	// email
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`

	// publish
	Event       string    `json:"event,omitempty"`
	AggregateID int64     `json:"aggregate_id,omitempty"`
	Payload     any       `json:"payload,omitempty"`
	OccurredAt  time.Time `json:"occurred_at,omitempty"`
}

func Notify(recipientID int64, role, message string, severity Severity, link string) Effect {
	return Effect{
		Kind:          EffectNotify,
		RecipientID:   recipientID,
		RecipientRole: role,
		Message:       message,
		Severity:      severity,
		Link:          link,
	}
}

func Email(to, subject, body string) Effect {
	return Effect{Kind: EffectEmail, To: to, Subject: subject, Body: body}
}

func Publish(event string, aggregateID int64, payload any) Effect {
	return Effect{
		Kind:        EffectPublish,
		Event:       event,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	}
}

// EffectSink accepts effects for asynchronous delivery.
type EffectSink interface {
	Dispatch(effects ...Effect)
}

// DiscardEffects drops everything. Useful where delivery is irrelevant.
type DiscardEffects struct{}

func (DiscardEffects) Dispatch(...Effect) {}
