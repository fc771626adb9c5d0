package models

import "time"

// InvoicePayment records whether a credit card invoice period has been
// settled. It is the only persisted piece of invoice state; totals and
// boundaries are recomputed from transactions on every read.
type InvoicePayment struct {
	Base
	AccountID   uint      `gorm:"not null;uniqueIndex:idx_invoice_period" json:"account_id"`
	PeriodStart time.Time `gorm:"not null;uniqueIndex:idx_invoice_period" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null;uniqueIndex:idx_invoice_period" json:"period_end"`
	IsPaid      bool      `gorm:"not null;default:false" json:"is_paid"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
