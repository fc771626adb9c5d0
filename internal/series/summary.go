package series

import (
	"sort"
	"time"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
)

// GroupSummary is a read-only projection over all transactions sharing a
// group id. It is recomputed from the member list on every read and has no
// lifecycle of its own.
type GroupSummary struct {
	GroupID           string `json:"group_id"`
	Kind              Kind   `json:"kind"`
	PaidInstallments  int    `json:"paid_installments"`
	TotalInstallments int    `json:"total_installments"`
	RemainingAmount   int64  `json:"remaining_amount"`
	TotalAmount       int64  `json:"total_amount"`
	MonthlyAmount     int64  `json:"monthly_amount"`
}

// Summarize builds the summary for a series as of the given date. A member
// is counted as paid once its date has passed (date <= asOf).
func Summarize(members []models.Transaction, asOf time.Time) (*GroupSummary, error) {
	if len(members) == 0 {
		return nil, apperrors.ErrSeriesNotFound
	}

	groupID := members[0].GroupID()
	if groupID == nil {
		return nil, apperrors.ErrSeriesIntegrity
	}
	kind := KindRecurring
	if members[0].IsInstallment() {
		kind = KindInstallment
	}

	sorted := make([]models.Transaction, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	asOf = Day(asOf)
	summary := &GroupSummary{
		GroupID:           *groupID,
		Kind:              kind,
		TotalInstallments: len(sorted),
		MonthlyAmount:     sorted[0].Amount,
	}
	for _, m := range sorted {
		summary.TotalAmount += m.Amount
		if !Day(m.Date).After(asOf) {
			summary.PaidInstallments++
		} else {
			summary.RemainingAmount += m.Amount
		}
	}

	// A stamped total wins over the observed count: deleted future
	// members shrink the list but not the original plan size.
	if kind == KindInstallment && sorted[0].InstallmentTotal != nil {
		summary.TotalInstallments = *sorted[0].InstallmentTotal
	}
	return summary, nil
}
