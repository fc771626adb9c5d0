package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/invoice"
	"centavo/internal/models"
	"centavo/internal/series"
)

// invoiceService handles credit card invoice logic.
type invoiceService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewInvoiceService creates a new InvoiceServicer.
func NewInvoiceService(db *gorm.DB, accountService AccountServicer) InvoiceServicer {
	return &invoiceService{db: db, accountService: accountService}
}

// GetInvoice resolves the billing period the reference date falls into and
// aggregates the account's expenses over it. Everything except the paid
// flag is recomputed from transactions on every call.
func (s *invoiceService) GetInvoice(accountID uint, referenceDate time.Time) (*Invoice, error) {
	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsCreditCard() {
		return nil, apperrors.ErrNotCreditCard
	}
	if account.ClosingDay == nil {
		return nil, apperrors.ErrMissingClosingDay
	}
	if referenceDate.IsZero() {
		referenceDate = time.Now()
	}

	period, err := invoice.ResolvePeriod(*account.ClosingDay, referenceDate)
	if err != nil {
		return nil, err
	}
	period.DueDay = account.DueDay

	var total int64
	err = s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ? AND type = ? AND date BETWEEN ? AND ?",
			accountID, models.TransactionTypeExpense, period.Start, period.End).
		Scan(&total).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	paid, err := s.getPaidState(accountID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	return &Invoice{
		AccountID: accountID,
		Period:    period,
		Total:     total,
		IsPaid:    paid,
	}, nil
}

// SetInvoicePaid persists the paid flag for an invoice period, creating the
// side-table row on first use.
func (s *invoiceService) SetInvoicePaid(accountID uint, periodStart, periodEnd time.Time, paid bool) error {
	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return err
	}
	if !account.IsCreditCard() {
		return apperrors.ErrNotCreditCard
	}

	periodStart = series.Day(periodStart)
	periodEnd = series.Day(periodEnd)
	if !periodEnd.After(periodStart) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "period end must be after period start")
	}

	var payment models.InvoicePayment
	err = s.db.
		Where("account_id = ? AND period_start = ? AND period_end = ?", accountID, periodStart, periodEnd).
		First(&payment).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment = models.InvoicePayment{
			AccountID:   accountID,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			IsPaid:      paid,
		}
		if err := s.db.Create(&payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	case err != nil:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&payment).Update("is_paid", paid).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// getPaidState reads the persisted paid flag, defaulting to false when the
// period has never been marked.
func (s *invoiceService) getPaidState(accountID uint, periodStart, periodEnd time.Time) (bool, error) {
	var payment models.InvoicePayment
	err := s.db.
		Where("account_id = ? AND period_start = ? AND period_end = ?", accountID, periodStart, periodEnd).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payment.IsPaid, nil
}
