package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"laborhub/internal/domain"
)

// Deliverer executes a single effect. The in-process Dispatcher and the
// redis task handler both go through it.
type Deliverer struct {
	notifier  *Service
	mailer    Mailer
	publisher Publisher
	log       *zap.Logger
}

// NewDeliverer accepts a nil publisher; publish effects are then skipped.
func NewDeliverer(notifier *Service, mailer Mailer, publisher Publisher, log *zap.Logger) *Deliverer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Deliverer{notifier: notifier, mailer: mailer, publisher: publisher, log: log}
}

func (d *Deliverer) Deliver(ctx context.Context, e domain.Effect) error {
	switch e.Kind {
	case domain.EffectNotify:
		_, err := d.notifier.Notify(ctx, Input{
			RecipientID: e.RecipientID,
			Role:        e.RecipientRole,
			Message:     e.Message,
			Severity:    e.Severity,
			Link:        e.Link,
		})
		return err
	case domain.EffectEmail:
		if e.To == "" {
			return nil
		}
		return d.mailer.Send(ctx, e.To, e.Subject, e.Body)
	case domain.EffectPublish:
		if d.publisher == nil {
			return nil
		}
		return d.publisher.PublishJSON(ctx, e.Event, Envelope{
			Event:       e.Event,
			AggregateID: e.AggregateID,
			OccurredAt:  e.OccurredAt,
			Payload:     e.Payload,
		})
	}
	return fmt.Errorf("unknown effect kind %q", e.Kind)
}

func (d *Deliverer) logFailure(e domain.Effect, err error) {
	d.log.Error("effect delivery failed",
		zap.String("kind", string(e.Kind)),
		zap.String("event", e.Event),
		zap.Int64("recipient_id", e.RecipientID),
		zap.Error(err),
	)
}
