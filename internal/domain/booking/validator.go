package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"laborhub/internal/domain"
	"laborhub/internal/domain/pricing"
)

// CreateInput is a booking request as submitted by a customer.
type CreateInput struct {
	CustomerID      int64
	LaborID         int64
	Service         string
	BookingDate     string
	BookingTime     string
	PaymentType     string
	Hours           *float64
	Days            *float64
	LocationAddress string
	LocationLat     *float64
	LocationLng     *float64
	Notes           string
}

// Accounts reads customers and labors. Both lookups return nil, nil when missing.
type Accounts interface {
	GetLabor(ctx context.Context, id int64) (*domain.Labor, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
}

// SlotChecker reports whether a labor already has an active booking at a slot.
type SlotChecker interface {
	HasActiveAt(ctx context.Context, laborID int64, date, clock string) (bool, error)
}

// Checked is a request that passed every rule except the slot check.
type Checked struct {
	Input       CreateInput
	Labor       *domain.Labor
	ScheduledAt time.Time
	PaymentType domain.PaymentType
	Duration    float64
}

// ConflictValidator runs the ordered creation checks. The first failure wins.
type ConflictValidator struct {
	accounts Accounts
	slots    SlotChecker
	loc      *time.Location
}

func NewConflictValidator(accounts Accounts, slots SlotChecker, loc *time.Location) *ConflictValidator {
	if loc == nil {
		loc = time.UTC
	}
	return &ConflictValidator{accounts: accounts, slots: slots, loc: loc}
}

// Validate runs required fields, schedule, duration, labor skill and payment type checks.
func (v *ConflictValidator) Validate(ctx context.Context, in CreateInput, now time.Time) (*Checked, error) {
	if missing := missingFields(in); len(missing) > 0 {
		return nil, domain.NewValidation("Missing required fields: " + strings.Join(missing, ", "))
	}

	scheduledAt, err := time.ParseInLocation(domain.DateLayout+" "+domain.TimeLayout,
		strings.TrimSpace(in.BookingDate)+" "+strings.TrimSpace(in.BookingTime), v.loc)
	if err != nil {
		return nil, domain.NewValidation("Invalid booking date or time.")
	}
	if scheduledAt.Before(now) {
		return nil, domain.NewValidation("Booking date and time cannot be in the past.")
	}

	pt, ok := domain.ParsePaymentType(in.PaymentType)
	if !ok {
		return nil, domain.NewValidation("Payment type must be either Hourly or Daily.")
	}
	duration := pricing.Duration(pt, deref(in.Hours), deref(in.Days))
	if duration <= 0 {
		if pt == domain.PaymentTypeDaily {
			return nil, domain.NewValidation("Days must be greater than 0 for daily bookings.")
		}
		return nil, domain.NewValidation("Hours must be greater than 0 for hourly bookings.")
	}

	labor, err := v.accounts.GetLabor(ctx, in.LaborID)
	if err != nil {
		return nil, err
	}
	if labor == nil {
		return nil, ErrLaborNotFound
	}
	if !strings.EqualFold(string(labor.SkillCategory), strings.TrimSpace(in.Service)) {
		return nil, domain.NewValidation("Labor does not offer the requested service.")
	}

	if !strings.EqualFold(string(labor.PaymentType), string(pt)) {
		return nil, domain.NewValidation(fmt.Sprintf("Labor only accepts %s bookings.", labor.PaymentType))
	}

	return &Checked{
		Input:       in,
		Labor:       labor,
		ScheduledAt: scheduledAt,
		PaymentType: pt,
		Duration:    duration,
	}, nil
}

// CheckSlot is the last rule. Callers hold the slot lock while it runs.
func (v *ConflictValidator) CheckSlot(ctx context.Context, c *Checked) error {
	taken, err := v.slots.HasActiveAt(ctx, c.Labor.ID, normDate(c), normTime(c))
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}
	return nil
}

func missingFields(in CreateInput) []string {
	var missing []string
	if in.CustomerID == 0 {
		missing = append(missing, "customerId")
	}
	if in.LaborID == 0 {
		missing = append(missing, "laborId")
	}
	if strings.TrimSpace(in.Service) == "" {
		missing = append(missing, "service")
	}
	if strings.TrimSpace(in.BookingDate) == "" {
		missing = append(missing, "bookingDate")
	}
	if strings.TrimSpace(in.BookingTime) == "" {
		missing = append(missing, "bookingTime")
	}
	if strings.TrimSpace(in.PaymentType) == "" {
		missing = append(missing, "paymentType")
	}
	return missing
}

// normDate and normTime re-render the parsed instant so "9:00" and "09:00"
// land on the same slot.
func normDate(c *Checked) string { return c.ScheduledAt.Format(domain.DateLayout) }

func normTime(c *Checked) string { return c.ScheduledAt.Format(domain.TimeLayout) }

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
