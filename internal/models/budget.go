package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps spending for one category over the closed interval [StartDate, EndDate].
type Budget struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index:idx_budgets_user_category" json:"user_id"`
	CategoryID  string          `gorm:"type:uuid;not null;index:idx_budgets_user_category" json:"category_id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount" swaggertype:"string"`
	Period      Frequency       `gorm:"not null" json:"period"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     time.Time       `gorm:"not null" json:"end_date"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
