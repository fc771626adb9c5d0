package models

import "gorm.io/gorm"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeDebt       AccountType = "debt"
)

// Account represents a financial account in the system
type Account struct {
	Base
	Name        string      `gorm:"not null" json:"name"`
	Type        AccountType `gorm:"not null" json:"type"`
	Description string      `json:"description"`
	Balance     int64       `gorm:"not null;default:0" json:"balance"`
	Currency    string      `gorm:"not null;default:'USD'" json:"currency"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`

	// For credit card accounts. ClosingDay bounds the billing period;
	// DueDay is informational and may be absent.
	CreditLimit int64 `json:"credit_limit,omitempty"`
	ClosingDay  *int  `json:"closing_day,omitempty"`
	DueDay      *int  `json:"due_day,omitempty"`

	// For debt accounts
	InterestRate float64 `json:"interest_rate,omitempty"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

// BeforeCreate hook to clear fields that do not apply to the account type
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	switch a.Type {
	case AccountTypeCash:
		a.CreditLimit = 0
		a.ClosingDay = nil
		a.DueDay = nil
		a.InterestRate = 0
	case AccountTypeCreditCard:
		a.InterestRate = 0
	case AccountTypeDebt:
		a.CreditLimit = 0
		a.ClosingDay = nil
		a.DueDay = nil
	}
	return nil
}

// IsCreditCard reports whether the account participates in invoice periods.
func (a *Account) IsCreditCard() bool {
	return a.Type == AccountTypeCreditCard
}
