package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeBank       AccountType = "bank"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
)

// Valid reports whether t is a supported account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeCreditCard, AccountTypeSavings, AccountTypeInvestment:
		return true
	}
	return false
}

// Account represents a financial account owned by a user.
type Account struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string          `gorm:"not null" json:"name"`
	Type        AccountType     `gorm:"not null" json:"type"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"balance" swaggertype:"string"`
	Currency    string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
}
