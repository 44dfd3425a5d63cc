package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringPayment is a repeating obligation. It is Active while IsActive is
// true; once a rollover moves NextDueDate past EndDate it becomes Ended
// (IsActive false) and is never advanced again.
type RecurringPayment struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount" swaggertype:"string"`
	Frequency   Frequency       `gorm:"not null" json:"frequency"`
	CategoryID  string          `gorm:"type:uuid;not null" json:"category_id"`
	AccountID   string          `gorm:"type:uuid;not null" json:"account_id"`
	NextDueDate time.Time       `gorm:"not null;index" json:"next_due_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	IsActive    bool            `gorm:"not null;default:true;index" json:"is_active"`
	Tags        []string        `gorm:"type:text;serializer:json" json:"tags"`
}
