package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction in the system.
// Amount is always positive (in cents); Type carries the direction.
// Date is a calendar date, normalized to midnight UTC.
type Transaction struct {
	Base
	AccountID   uint            `gorm:"not null;index" json:"account_id"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Tags        []string        `gorm:"serializer:json" json:"tags,omitempty"`

	// Series membership. A transaction belongs to at most one series
	// kind: either the installment fields are set together or
	// RecurringGroupID is set, never both.
	InstallmentGroupID *string `gorm:"index" json:"installment_group_id,omitempty"`
	InstallmentIndex   *int    `json:"installment_index,omitempty"`
	InstallmentTotal   *int    `json:"installment_total,omitempty"`
	RecurringGroupID   *string `gorm:"index" json:"recurring_group_id,omitempty"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// GroupID returns the series group identifier, if any.
func (t *Transaction) GroupID() *string {
	if t.InstallmentGroupID != nil {
		return t.InstallmentGroupID
	}
	return t.RecurringGroupID
}

// IsInstallment reports whether the transaction is an installment member.
func (t *Transaction) IsInstallment() bool {
	return t.InstallmentGroupID != nil
}

// IsRecurring reports whether the transaction is a recurring member.
func (t *Transaction) IsRecurring() bool {
	return t.RecurringGroupID != nil
}
