// Package series implements transaction series: installment groups (one
// purchase split into N dated transactions) and recurring groups (a fixed
// monthly charge materialized as N future transactions). Planning, scope
// resolution, and summaries are pure functions; persistence belongs to the
// service layer.
package series

import (
	"time"

	"github.com/google/uuid"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
)

// Kind distinguishes the two series flavors.
type Kind string

const (
	KindInstallment Kind = "installment"
	KindRecurring   Kind = "recurring"
)

// Series size bounds. A "series" of one is a plain transaction; beyond 60
// months the product treats the plan as a loan, which is out of scope here.
const (
	MinCount = 2
	MaxCount = 60
)

// NewGroupID generates a fresh series group identifier. One identifier is
// minted per planning operation and stamped on every member.
func NewGroupID() string {
	return uuid.NewString()
}

// Plan is the ephemeral result of a planning operation. It is never
// persisted as its own entity; only the transactions it produces are.
type Plan struct {
	GroupID    string
	Kind       Kind
	TotalCount int
	UnitAmount int64
	StartDate  time.Time
	Amounts    []int64
	Dates      []time.Time
}

// PlanInstallments splits a principal (in cents) into count monthly
// installments starting at startDate. The first count-1 installments carry
// floor(principal/count); the final installment absorbs the rounding
// remainder so the series sums exactly to the principal.
func PlanInstallments(principal int64, count int, startDate time.Time) (*Plan, error) {
	if err := validatePlanInput(principal, count, startDate, "principal"); err != nil {
		return nil, err
	}

	unit := principal / int64(count)
	amounts := make([]int64, count)
	for i := 0; i < count-1; i++ {
		amounts[i] = unit
	}
	amounts[count-1] = principal - unit*int64(count-1)

	return &Plan{
		GroupID:    NewGroupID(),
		Kind:       KindInstallment,
		TotalCount: count,
		UnitAmount: unit,
		StartDate:  Day(startDate),
		Amounts:    amounts,
		Dates:      monthlyDates(startDate, count),
	}, nil
}

// PlanRecurring produces count monthly occurrences of a fixed charge
// starting at startDate. Every member carries the same amount; recurring
// expenses are constant by definition, so there is no remainder to place.
func PlanRecurring(monthlyAmount int64, count int, startDate time.Time) (*Plan, error) {
	if err := validatePlanInput(monthlyAmount, count, startDate, "monthly amount"); err != nil {
		return nil, err
	}

	amounts := make([]int64, count)
	for i := range amounts {
		amounts[i] = monthlyAmount
	}

	return &Plan{
		GroupID:    NewGroupID(),
		Kind:       KindRecurring,
		TotalCount: count,
		UnitAmount: monthlyAmount,
		StartDate:  Day(startDate),
		Amounts:    amounts,
		Dates:      monthlyDates(startDate, count),
	}, nil
}

func validatePlanInput(amount int64, count int, startDate time.Time, amountName string) error {
	if amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, amountName+" must be greater than zero")
	}
	if count < MinCount || count > MaxCount {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "count must be between 2 and 60")
	}
	if startDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start date is required")
	}
	return nil
}

func monthlyDates(start time.Time, count int) []time.Time {
	dates := make([]time.Time, count)
	for i := range dates {
		dates[i] = AddMonthsClamped(start, i)
	}
	return dates
}

// Drafts materializes the plan as transaction drafts sharing the plan's
// group id. Installment members are stamped with their 1-based index and
// the series total; recurring members carry only the group id.
func (p *Plan) Drafts(accountID uint, categoryID *uint, txType models.TransactionType, description string, tags []string) []models.Transaction {
	drafts := make([]models.Transaction, p.TotalCount)
	for i := 0; i < p.TotalCount; i++ {
		tx := models.Transaction{
			AccountID:   accountID,
			CategoryID:  categoryID,
			Type:        txType,
			Amount:      p.Amounts[i],
			Description: description,
			Date:        p.Dates[i],
			Tags:        tags,
		}
		switch p.Kind {
		case KindInstallment:
			groupID := p.GroupID
			index := i + 1
			total := p.TotalCount
			tx.InstallmentGroupID = &groupID
			tx.InstallmentIndex = &index
			tx.InstallmentTotal = &total
		case KindRecurring:
			groupID := p.GroupID
			tx.RecurringGroupID = &groupID
		}
		drafts[i] = tx
	}
	return drafts
}

// Total returns the sum of all planned amounts.
func (p *Plan) Total() int64 {
	var total int64
	for _, a := range p.Amounts {
		total += a
	}
	return total
}
