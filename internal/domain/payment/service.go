package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"laborhub/internal/domain"
	"laborhub/internal/domain/pricing"
)

type Service struct {
	payments paymentRepo
	bookings bookingStore
	labors   laborReader
	fees     feeResolver
	decliner bookingDecliner
	effects  domain.EffectSink
	log      *zap.Logger
	now      func() time.Time
}

func NewService(payments paymentRepo, bookings bookingStore, labors laborReader, fees feeResolver, decliner bookingDecliner, effects domain.EffectSink, log *zap.Logger) *Service {
	if effects == nil {
		effects = domain.DiscardEffects{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		payments: payments,
		bookings: bookings,
		labors:   labors,
		fees:     fees,
		decliner: decliner,
		effects:  effects,
		log:      log,
		now:      time.Now,
	}
}

// CreateInput is a payment request for an accepted booking. Card is set for card and online methods.
type CreateInput struct {
	BookingID int64
	Duration  float64
	Method    string
	Card      *CardDetails
}

// CreatePayment prices and stores the payment and moves the booking to Ongoing in one write.
// Card and online payments are charged immediately; cash stays pending until completion.
func (s *Service) CreatePayment(ctx context.Context, customerID int64, in CreateInput) (*domain.Payment, error) {
	b, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	if b.Status != domain.BookingAccepted {
		return nil, ErrBookingNotAccepted
	}
	if in.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	method, ok := domain.ParsePaymentMethod(in.Method)
	if !ok {
		return nil, ErrInvalidMethod
	}
	if method.RequiresCard() && in.Card == nil {
		return nil, ErrCardRequired
	}

	existing, err := s.bookings.PaymentFor(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPaymentExists
	}

	labor, err := s.labors.GetLabor(ctx, b.LaborID)
	if err != nil {
		return nil, err
	}
	if labor == nil {
		return nil, domain.NewNotFound("Labor not found.")
	}
	fee, err := s.fees.CompanyFee(ctx, b.CustomerID)
	if err != nil {
		return nil, err
	}

	quote := pricing.NewQuote(labor.Rate, in.Duration, fee)
	p := &domain.Payment{
		BookingID:     b.ID,
		LaborID:       b.LaborID,
		CustomerID:    b.CustomerID,
		PaymentType:   b.PaymentType,
		Rate:          quote.Rate,
		Duration:      quote.Duration,
		CompanyFee:    quote.CompanyFee,
		TotalAmount:   quote.Total,
		PaymentMethod: method,
		Status:        domain.PaymentPending,
	}
	if method.RequiresCard() {
		p.CardLast4 = in.Card.Last4()
		p.TransactionRef = "txn_" + uuid.NewString()
		if err := p.Settle(s.now().UTC()); err != nil {
			return nil, err
		}
	}

	from := b.Status
	if err := b.Apply(domain.ActionStartWork); err != nil {
		return nil, err
	}
	if err := s.bookings.SaveTransition(ctx, b, from, p); err != nil {
		return nil, err
	}

	s.log.Info("payment created",
		zap.Int64("payment_id", p.ID),
		zap.Int64("booking_id", b.ID),
		zap.String("method", string(p.PaymentMethod)),
		zap.String("status", string(p.Status)),
		zap.Float64("total_amount", p.TotalAmount),
	)
	s.effects.Dispatch(createdEffects(b, p)...)
	return p, nil
}

// MarkPaid settles a payment on request of its customer. Cash waits for the
// booking to complete; card and online re-assert the booking as Ongoing.
func (s *Service) MarkPaid(ctx context.Context, customerID, paymentID int64) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}

	if p.Status != domain.PaymentCancelled && p.PaymentMethod == domain.MethodCash && b.Status != domain.BookingCompleted {
		return nil, ErrCashNotCompleted
	}
	if err := p.Settle(s.now().UTC()); err != nil {
		return nil, err
	}

	from := b.Status
	if p.PaymentMethod != domain.MethodCash && b.Status.Can(domain.ActionStartWork) {
		if err := b.Apply(domain.ActionStartWork); err != nil {
			return nil, err
		}
	}
	if err := s.bookings.SaveTransition(ctx, b, from, p); err != nil {
		return nil, err
	}

	s.log.Info("payment marked paid", zap.Int64("payment_id", p.ID), zap.Int64("booking_id", b.ID))
	s.effects.Dispatch(paidEffects(b, p)...)
	return p, nil
}

// HandleDeclined cascades a booking cancellation onto its payment. A booking
// without a payment is only cancelled; a repeated call changes nothing. A
// completed booking is refused with INVALID_TRANSITION and its payment kept.
func (s *Service) HandleDeclined(ctx context.Context, bookingID int64, reason string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	p, err := s.bookings.PaymentFor(ctx, bookingID)
	if err != nil {
		return err
	}
	effects, err := s.decliner.DeclineLoaded(ctx, b, p, reason)
	if err != nil {
		return err
	}
	if p != nil {
		s.log.Info("payment cancelled with booking",
			zap.Int64("payment_id", p.ID),
			zap.Int64("booking_id", bookingID),
		)
	}
	s.effects.Dispatch(effects...)
	return nil
}

// Get returns a payment to the customer who made it or the labor it pays.
func (s *Service) Get(ctx context.Context, userID int64, role string, paymentID int64) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	switch {
	case role == domain.RoleCustomer && p.CustomerID == userID:
	case role == domain.RoleLabor && p.LaborID == userID:
	default:
		return nil, ErrNotOwner
	}
	return p, nil
}

func createdEffects(b *domain.Booking, p *domain.Payment) []domain.Effect {
	var msg, subject, body string
	if p.Status == domain.PaymentPaid {
		msg = fmt.Sprintf("Payment of %.2f for booking #%d received. Your booking is now in progress.", p.TotalAmount, b.ID)
		subject = "Payment confirmation"
		body = fmt.Sprintf("Hi %s,\n\nWe received your %s payment of %.2f for booking #%d.\nTransaction reference: %s\n",
			b.CustomerName, p.PaymentMethod, p.TotalAmount, b.ID, p.TransactionRef)
	} else {
		msg = fmt.Sprintf("Cash payment of %.2f for booking #%d is pending. Pay the labor once the job is done.", p.TotalAmount, b.ID)
		subject = "Payment pending"
		body = fmt.Sprintf("Hi %s,\n\nYour cash payment of %.2f for booking #%d will be settled when the job is completed.\n",
			b.CustomerName, p.TotalAmount, b.ID)
	}

	return []domain.Effect{
		domain.Notify(b.CustomerID, domain.RoleCustomer, msg, domain.SeveritySuccess, fmt.Sprintf("/bookings/%d", b.ID)),
		domain.Notify(b.LaborID, domain.RoleLabor,
			fmt.Sprintf("%s set up %s payment for booking #%d. You can start the job.", b.CustomerName, p.PaymentMethod, b.ID),
			domain.SeverityInfo, fmt.Sprintf("/bookings/%d", b.ID)),
		domain.Email(b.CustomerEmail, subject, body),
		domain.Publish(domain.EventPaymentCreated, p.ID, p),
	}
}

func paidEffects(b *domain.Booking, p *domain.Payment) []domain.Effect {
	return []domain.Effect{
		domain.Notify(b.CustomerID, domain.RoleCustomer,
			fmt.Sprintf("Payment of %.2f for booking #%d is complete.", p.TotalAmount, b.ID),
			domain.SeveritySuccess, fmt.Sprintf("/bookings/%d", b.ID)),
		domain.Email(b.CustomerEmail, "Payment confirmation",
			fmt.Sprintf("Hi %s,\n\nYour payment of %.2f for booking #%d is complete.\n", b.CustomerName, p.TotalAmount, b.ID)),
		domain.Publish(domain.EventPaymentPaid, p.ID, p),
	}
}
