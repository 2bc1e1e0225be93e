package domain

import "time"

// PlanType identifies a customer subscription tier.
type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanBasic   PlanType = "basic"
	PlanPremium PlanType = "premium"
)

// UnlimitedBookings marks a plan without a monthly booking cap.
const UnlimitedBookings = -1

// Subscription gives a customer a monthly booking quota and a company fee.
// CompanyFee overrides the plan default when set.
type Subscription struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	CustomerID   int64     `gorm:"not null;index" json:"customer_id"`
	PlanType     PlanType  `gorm:"size:16;not null" json:"plan_type"`
	BookingLimit int       `gorm:"not null" json:"booking_limit"`
	CompanyFee   *float64  `json:"company_fee,omitempty"`
	IsActive     bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (s *Subscription) Unlimited() bool { return s.BookingLimit == UnlimitedBookings }
