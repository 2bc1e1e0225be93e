package domain

import "time"

// Notification is an in-app message addressed to one customer or labor.
type Notification struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	RecipientID   int64     `gorm:"not null;index:idx_notifications_recipient" json:"recipient_id"`
	RecipientRole string    `gorm:"size:16;not null;index:idx_notifications_recipient" json:"recipient_role"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	Severity      Severity  `gorm:"size:16;default:info" json:"severity"`
	Link          string    `gorm:"size:512" json:"link,omitempty"`
	IsRead        bool      `gorm:"default:false" json:"is_read"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
