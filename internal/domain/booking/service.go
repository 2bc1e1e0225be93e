package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"laborhub/internal/domain"
	"laborhub/internal/domain/pricing"
	"laborhub/internal/domain/subscription"
	"laborhub/internal/pkg/lock"
)

// QuotaGate is implemented by subscription.Service.
type QuotaGate interface {
	CheckAndAuthorize(ctx context.Context, customerID int64, now time.Time) (*subscription.Authorization, error)
	CompanyFee(ctx context.Context, customerID int64) (float64, error)
}

type Service struct {
	repo       Repository
	accounts   Accounts
	quota      QuotaGate
	validator  *ConflictValidator
	locker     lock.Locker
	effects    domain.EffectSink
	log        *zap.Logger
	appBaseURL string
	now        func() time.Time
}

type Deps struct {
	Repo       Repository
	Accounts   Accounts
	Quota      QuotaGate
	Validator  *ConflictValidator
	Locker     lock.Locker
	Effects    domain.EffectSink
	Log        *zap.Logger
	AppBaseURL string
	Now        func() time.Time
}

func NewService(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Effects == nil {
		d.Effects = domain.DiscardEffects{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Service{
		repo:       d.Repo,
		accounts:   d.Accounts,
		quota:      d.Quota,
		validator:  d.Validator,
		locker:     d.Locker,
		effects:    d.Effects,
		log:        d.Log,
		appBaseURL: strings.TrimRight(d.AppBaseURL, "/"),
		now:        d.Now,
	}
}

// Create validates, checks the quota and the slot under locks, prices and stores a Pending booking.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Booking, error) {
	now := s.now()

	checked, err := s.validator.Validate(ctx, in, now)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, lock.QuotaKey(in.CustomerID))
	if err != nil {
		return nil, err
	}
	defer release()
	releaseSlot, err := s.acquire(ctx, lock.SlotKey(checked.Labor.ID, normDate(checked), normTime(checked)))
	if err != nil {
		return nil, err
	}
	defer releaseSlot()

	auth, err := s.quota.CheckAndAuthorize(ctx, in.CustomerID, now)
	if err != nil {
		return nil, err
	}
	if err := s.validator.CheckSlot(ctx, checked); err != nil {
		return nil, err
	}

	customer, err := s.accounts.GetCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerMissing
	}

	quote := pricing.NewQuote(checked.Labor.Rate, checked.Duration, auth.CompanyFee)
	b := &domain.Booking{
		CustomerID:      customer.ID,
		LaborID:         checked.Labor.ID,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		Service:         checked.Labor.SkillCategory,
		BookingDate:     normDate(checked),
		BookingTime:     normTime(checked),
		ScheduledAt:     checked.ScheduledAt.UTC(),
		LocationAddress: in.LocationAddress,
		LocationLat:     in.LocationLat,
		LocationLng:     in.LocationLng,
		PaymentType:     checked.PaymentType,
		LaborRate:       quote.Rate,
		ServiceCharge:   quote.CompanyFee,
		TotalAmount:     quote.Total,
		Status:          domain.BookingPending,
		Notes:           in.Notes,
	}
	if checked.PaymentType == domain.PaymentTypeDaily {
		b.Days = checked.Duration
	} else {
		b.Hours = checked.Duration
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Labor = checked.Labor
	b.Customer = customer

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("customer_id", b.CustomerID),
		zap.Int64("labor_id", b.LaborID),
		zap.Float64("total_amount", b.TotalAmount),
	)
	s.effects.Dispatch(createdEffects(b)...)
	return b, nil
}

func (s *Service) acquire(ctx context.Context, key string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Acquire(ctx, key)
	if errors.Is(err, lock.ErrLocked) {
		return nil, ErrSlotBusy
	}
	return release, err
}

// Get returns a booking to its customer or its labor.
func (s *Service) Get(ctx context.Context, userID int64, role string, id int64) (*domain.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(b, userID, role) {
		return nil, ErrNotOwner
	}
	return b, nil
}

func canView(b *domain.Booking, userID int64, role string) bool {
	switch role {
	case domain.RoleCustomer:
		return b.CustomerID == userID
	case domain.RoleLabor:
		return b.LaborID == userID
	}
	return false
}

func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) ListForLabor(ctx context.Context, laborID int64) ([]domain.Booking, error) {
	return s.repo.ListByLabor(ctx, laborID)
}

// AmountQuote is a live re-quote of a booking.
type AmountQuote struct {
	BookingID  int64   `json:"bookingId"`
	Amount     float64 `json:"amount"`
	CompanyFee float64 `json:"companyFee"`
}

// Amount re-prices a booking from its rate snapshot and the customer's current fee.
// TotalAmount on the booking stays the historical figure.
func (s *Service) Amount(ctx context.Context, userID int64, role string, id int64) (*AmountQuote, error) {
	b, err := s.Get(ctx, userID, role, id)
	if err != nil {
		return nil, err
	}
	fee, err := s.quota.CompanyFee(ctx, b.CustomerID)
	if err != nil {
		return nil, err
	}
	return &AmountQuote{
		BookingID:  b.ID,
		Amount:     pricing.Amount(b.LaborRate, pricing.Duration(b.PaymentType, b.Hours, b.Days), fee),
		CompanyFee: fee,
	}, nil
}

// UpdateStatus applies the labor's requested status to one of their bookings.
func (s *Service) UpdateStatus(ctx context.Context, laborID, bookingID int64, requested, reason string) (*domain.Booking, error) {
	action, err := domain.ActionForRequestedStatus(requested)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.LaborID != laborID {
		return nil, ErrNotOwner
	}

	switch action {
	case domain.ActionAccept:
		return s.accept(ctx, b)
	case domain.ActionComplete:
		return s.complete(ctx, b)
	default:
		return s.decline(ctx, b, reason)
	}
}

func (s *Service) accept(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	from := b.Status
	if err := b.Apply(domain.ActionAccept); err != nil {
		return nil, err
	}
	if err := s.repo.SaveTransition(ctx, b, from, nil); err != nil {
		return nil, err
	}
	s.logTransition(b, from)
	s.effects.Dispatch(acceptedEffects(b)...)
	return b, nil
}

// complete enforces the payment gate. A pending cash payment is settled in the same write.
func (s *Service) complete(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	from := b.Status
	if _, err := from.Next(domain.ActionComplete); err != nil {
		return nil, err
	}

	p, err := s.repo.PaymentFor(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	settleCash, err := domain.CompletionGate(p)
	if err != nil {
		return nil, err
	}

	var settled *domain.Payment
	if settleCash {
		if err := p.Settle(s.now().UTC()); err != nil {
			return nil, err
		}
		settled = p
	}
	if err := b.Apply(domain.ActionComplete); err != nil {
		return nil, err
	}
	if err := s.repo.SaveTransition(ctx, b, from, settled); err != nil {
		return nil, err
	}
	b.Payment = p

	s.logTransition(b, from)
	s.effects.Dispatch(completedEffects(b, settled, s.reviewLink(b.ID))...)
	return b, nil
}

func (s *Service) decline(ctx context.Context, b *domain.Booking, reason string) (*domain.Booking, error) {
	p, err := s.repo.PaymentFor(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	effects, err := s.DeclineLoaded(ctx, b, p, reason)
	if err != nil {
		return nil, err
	}
	s.effects.Dispatch(effects...)
	return b, nil
}

// DeclineLoaded cancels b and p atomically and returns the effects to deliver.
// Declining an already cancelled booking only re-asserts the payment cancellation.
func (s *Service) DeclineLoaded(ctx context.Context, b *domain.Booking, p *domain.Payment, reason string) ([]domain.Effect, error) {
	from := b.Status
	bookingChanged, paymentChanged, err := Decline(b, p, reason, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !bookingChanged && !paymentChanged {
		return nil, nil
	}

	var writePayment *domain.Payment
	if paymentChanged {
		writePayment = p
	}
	if err := s.repo.SaveTransition(ctx, b, from, writePayment); err != nil {
		return nil, err
	}
	b.Payment = p

	if !bookingChanged {
		return PaymentCancelledEffects(b, p), nil
	}
	s.logTransition(b, from)
	return DeclineEffects(b, writePayment), nil
}

// Delete removes a customer's own booking regardless of status.
func (s *Service) Delete(ctx context.Context, customerID, id int64) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.CustomerID != customerID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("booking deleted", zap.Int64("booking_id", id), zap.String("status", string(b.Status)))
	s.effects.Dispatch(deletedEffects(b)...)
	return nil
}

// ClearHistory removes the labor's completed and cancelled bookings.
func (s *Service) ClearHistory(ctx context.Context, laborID int64) (int64, error) {
	n, err := s.repo.DeleteHistory(ctx, laborID)
	if err != nil {
		return 0, err
	}
	s.log.Info("booking history cleared", zap.Int64("labor_id", laborID), zap.Int64("deleted", n))
	return n, nil
}

func (s *Service) reviewLink(bookingID int64) string {
	return fmt.Sprintf("%s/reviews/new?bookingId=%d", s.appBaseURL, bookingID)
}

func (s *Service) logTransition(b *domain.Booking, from domain.BookingStatus) {
	s.log.Info("booking status changed",
		zap.Int64("booking_id", b.ID),
		zap.String("from", string(from)),
		zap.String("to", string(b.Status)),
	)
}
