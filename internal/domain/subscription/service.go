package subscription

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"laborhub/internal/domain"
)

// BookingCounter is implemented by the booking repository.
type BookingCounter interface {
	CountCreatedSince(ctx context.Context, customerID int64, since time.Time) (int64, error)
}

// Service owns plan resolution, the monthly quota and the company fee.
type Service struct {
	repo        Repository
	counter     BookingCounter
	plans       PlanTable
	fallbackFee float64
	log         *zap.Logger
}

func NewService(repo Repository, counter BookingCounter, plans PlanTable, fallbackFee float64, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		counter:     counter,
		plans:       plans,
		fallbackFee: fallbackFee,
		log:         log,
	}
}

// Authorization is the outcome of a passed quota check.
type Authorization struct {
	CompanyFee float64
	Used       int64
	Limit      int
}

// Usage is the quota state shown to the customer.
type Usage struct {
	PlanType    domain.PlanType `json:"plan_type"`
	Used        int64           `json:"used"`
	Limit       int             `json:"limit"`
	Remaining   int64           `json:"remaining"` // -1 = unlimited
	CompanyFee  float64         `json:"company_fee"`
	PeriodStart time.Time       `json:"period_start"`
	UpgradeTo   string          `json:"upgrade_to,omitempty"`
}

func (s *Service) Plans() []Plan {
	return s.plans.All()
}

// GetActive returns nil, nil when the customer has no active subscription.
func (s *Service) GetActive(ctx context.Context, customerID int64) (*domain.Subscription, error) {
	return s.repo.GetActiveByCustomerID(ctx, customerID)
}

// CompanyFee resolves the fee: override on the record, then the plan default,
// then the fallback when no record exists.
func (s *Service) CompanyFee(ctx context.Context, customerID int64) (float64, error) {
	sub, err := s.repo.GetActiveByCustomerID(ctx, customerID)
	if err != nil {
		return 0, err
	}
	return s.feeFor(sub), nil
}

func (s *Service) feeFor(sub *domain.Subscription) float64 {
	if sub == nil {
		return s.fallbackFee
	}
	if sub.CompanyFee != nil {
		return *sub.CompanyFee
	}
	if plan, ok := s.plans.Lookup(sub.PlanType); ok {
		return plan.CompanyFee
	}
	return s.fallbackFee
}

// CheckAndAuthorize counts this calendar month's bookings against the plan limit.
func (s *Service) CheckAndAuthorize(ctx context.Context, customerID int64, now time.Time) (*Authorization, error) {
	sub, err := s.repo.GetActiveByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoActiveSubscription
	}

	used, err := s.countThisMonth(ctx, customerID, now)
	if err != nil {
		return nil, err
	}

	if !sub.Unlimited() && used >= int64(sub.BookingLimit) {
		s.log.Info("booking quota exhausted",
			zap.Int64("customer_id", customerID),
			zap.String("plan", string(sub.PlanType)),
			zap.Int64("used", used),
			zap.Int("limit", sub.BookingLimit),
		)
		return nil, &LimitError{
			Err:       ErrBookingLimitExceeded,
			Current:   int(used),
			Limit:     sub.BookingLimit,
			PlanName:  string(sub.PlanType),
			UpgradeTo: s.plans.UpgradeTo(sub.PlanType),
		}
	}

	return &Authorization{CompanyFee: s.feeFor(sub), Used: used, Limit: sub.BookingLimit}, nil
}

func (s *Service) countThisMonth(ctx context.Context, customerID int64, now time.Time) (int64, error) {
	if s.counter == nil {
		return 0, errCounterMissing
	}
	return s.counter.CountCreatedSince(ctx, customerID, MonthStart(now))
}

// AssignDefault gives a customer the free plan unless one is already active.
func (s *Service) AssignDefault(ctx context.Context, customerID int64) (*domain.Subscription, bool, error) {
	existing, err := s.repo.GetActiveByCustomerID(ctx, customerID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	plan, ok := s.plans.Lookup(domain.PlanFree)
	if !ok {
		return nil, false, fmt.Errorf("plan table has no %q plan", domain.PlanFree)
	}
	sub := &domain.Subscription{
		CustomerID:   customerID,
		PlanType:     plan.Type,
		BookingLimit: plan.BookingLimit,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, false, err
	}
	s.log.Info("default subscription assigned", zap.Int64("customer_id", customerID))
	return sub, true, nil
}

// Upgrade switches the active subscription to planType. A fee override survives the change.
func (s *Service) Upgrade(ctx context.Context, customerID int64, planType string) (*domain.Subscription, error) {
	plan, ok := s.plans.Lookup(domain.PlanType(planType))
	if !ok {
		return nil, ErrInvalidPlan
	}

	sub, err := s.repo.GetActiveByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = &domain.Subscription{
			CustomerID:   customerID,
			PlanType:     plan.Type,
			BookingLimit: plan.BookingLimit,
			IsActive:     true,
		}
		if err := s.repo.Create(ctx, sub); err != nil {
			return nil, err
		}
		return sub, nil
	}

	sub.PlanType = plan.Type
	sub.BookingLimit = plan.BookingLimit
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info("subscription changed",
		zap.Int64("customer_id", customerID),
		zap.String("plan", string(plan.Type)),
	)
	return sub, nil
}

func (s *Service) Usage(ctx context.Context, customerID int64, now time.Time) (*Usage, error) {
	sub, err := s.repo.GetActiveByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	used, err := s.countThisMonth(ctx, customerID, now)
	if err != nil {
		return nil, err
	}

	remaining := int64(-1)
	if !sub.Unlimited() {
		remaining = int64(sub.BookingLimit) - used
		if remaining < 0 {
			remaining = 0
		}
	}
	return &Usage{
		PlanType:    sub.PlanType,
		Used:        used,
		Limit:       sub.BookingLimit,
		Remaining:   remaining,
		CompanyFee:  s.feeFor(sub),
		PeriodStart: MonthStart(now),
		UpgradeTo:   s.plans.UpgradeTo(sub.PlanType),
	}, nil
}

// MonthStart is the first instant of now's calendar month in UTC.
func MonthStart(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
