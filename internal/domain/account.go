package domain

import "time"

// Roles carried in access tokens.
const (
	RoleCustomer = "customer"
	RoleLabor    = "labor"
)

// Customer is owned by the registration service; this module only reads it.
type Customer struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex" json:"email"`
	Phone        string    `gorm:"size:50" json:"phone"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

// Labor is a worker offering one skill at a fixed rate and payment type.
type Labor struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"size:255;not null" json:"name"`
	Email         string        `gorm:"size:255;uniqueIndex" json:"email"`
	Phone         string        `gorm:"size:50" json:"phone"`
	SkillCategory SkillCategory `gorm:"size:64;index" json:"skill_category"`
	PaymentType   PaymentType   `gorm:"size:16" json:"payment_type"`
	Rate          float64       `json:"rate"`
	PasswordHash  string        `gorm:"size:255" json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (Labor) TableName() string { return "labors" }
