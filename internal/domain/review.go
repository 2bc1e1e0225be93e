package domain

import "time"

// Review is left once by a customer for a completed booking.
type Review struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	BookingID  int64     `gorm:"not null;uniqueIndex" json:"booking_id"`
	CustomerID int64     `gorm:"not null;index" json:"customer_id"`
	LaborID    int64     `gorm:"not null;index" json:"labor_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Review) TableName() string { return "reviews" }
