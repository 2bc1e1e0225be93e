package domain

import (
	"strings"
	"time"
)

// Layouts of the booking date and time strings as entered by the customer.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type PaymentType string

const (
	PaymentTypeHourly PaymentType = "Hourly"
	PaymentTypeDaily  PaymentType = "Daily"
)

// ParsePaymentType matches case-insensitively and returns the canonical value.
func ParsePaymentType(s string) (PaymentType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hourly":
		return PaymentTypeHourly, true
	case "daily":
		return PaymentTypeDaily, true
	}
	return "", false
}

// SkillCategory is the service a labor offers. The catalog itself is owned elsewhere.
type SkillCategory string

const (
	SkillPlumber     SkillCategory = "Plumber"
	SkillElectrician SkillCategory = "Electrician"
	SkillCarpenter   SkillCategory = "Carpenter"
	SkillPainter     SkillCategory = "Painter"
	SkillMason       SkillCategory = "Mason"
	SkillCleaner     SkillCategory = "Cleaner"
	SkillGardener    SkillCategory = "Gardener"
	SkillMover       SkillCategory = "Mover"
	SkillWelder      SkillCategory = "Welder"
	SkillMechanic    SkillCategory = "Mechanic"
	SkillOther       SkillCategory = "Other"
)

// Booking is a customer's request for a labor's service at a date and time.
// Customer contact fields and the labor rate are snapshots taken at creation.
type Booking struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	CustomerID int64 `gorm:"not null;index" json:"customer_id"`
	LaborID    int64 `gorm:"not null;index;uniqueIndex:idx_bookings_active_slot,where:status <> 'Completed' AND status <> 'Cancelled'" json:"labor_id"`

	CustomerName  string `gorm:"size:255" json:"customer_name"`
	CustomerEmail string `gorm:"size:255" json:"customer_email"`
	CustomerPhone string `gorm:"size:50" json:"customer_phone"`

	Service     SkillCategory `gorm:"size:64;not null" json:"service"`
	BookingDate string        `gorm:"size:10;not null;uniqueIndex:idx_bookings_active_slot" json:"booking_date"`
	BookingTime string        `gorm:"size:5;not null;uniqueIndex:idx_bookings_active_slot" json:"booking_time"`
	ScheduledAt time.Time     `json:"scheduled_at"`

	LocationAddress string   `gorm:"type:text" json:"location_address"`
	LocationLat     *float64 `json:"location_lat,omitempty"`
	LocationLng     *float64 `json:"location_lng,omitempty"`

	PaymentType   PaymentType `gorm:"size:16;not null" json:"payment_type"`
	Hours         float64     `json:"hours"`
	Days          float64     `json:"days"`
	LaborRate     float64     `json:"labor_rate"`
	ServiceCharge float64     `json:"service_charge"`
	TotalAmount   float64     `json:"total_amount"`

	Status        BookingStatus `gorm:"size:16;not null;index" json:"status"`
	DeclineReason string        `gorm:"type:text" json:"decline_reason,omitempty"`
	Notes         string        `gorm:"type:text" json:"notes,omitempty"`

	PaymentID *int64 `json:"payment_id,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Labor    *Labor    `gorm:"foreignKey:LaborID" json:"labor,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Payment  *Payment  `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

func (Booking) TableName() string { return "bookings" }

// Apply moves the booking through the state machine.
func (b *Booking) Apply(action BookingAction) error {
	next, err := b.Status.Next(action)
	if err != nil {
		return err
	}
	b.Status = next
	return nil
}
