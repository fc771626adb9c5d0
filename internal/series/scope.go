package series

import (
	apperrors "centavo/internal/errors"
	"centavo/internal/models"
)

// DeleteScope selects how much of a series a mutation applies to.
type DeleteScope string

const (
	// ScopeSingle affects only the target transaction.
	ScopeSingle DeleteScope = "single"
	// ScopeFuture affects the target and all later members: by ordinal
	// position for installments, by calendar date for recurring series
	// (recurring members have no intrinsic ordering beyond date).
	ScopeFuture DeleteScope = "future"
	// ScopeAll affects every member of the group, regardless of date or
	// paid state.
	ScopeAll DeleteScope = "all"
)

// ParseScope validates a scope string, defaulting empty to single.
func ParseScope(s string) (DeleteScope, error) {
	switch DeleteScope(s) {
	case "":
		return ScopeSingle, nil
	case ScopeSingle, ScopeFuture, ScopeAll:
		return DeleteScope(s), nil
	}
	return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "scope must be one of single, future, all")
}

// ResolveScope computes the set of transaction ids a scoped mutation
// covers. The input slice must contain the target; for series scopes it
// should hold the full series. The returned set always contains targetID
// and is a subset of the input.
//
// A standalone target (no group id) collapses every scope to single. An
// inconsistent series (installment fields partially present, or membership
// in both series kinds) is a data-integrity fault: the safest scope
// (single) is returned together with ErrSeriesIntegrity so callers can
// surface it without widening the blast radius.
func ResolveScope(transactions []models.Transaction, targetID uint, scope DeleteScope) ([]uint, error) {
	target := findByID(transactions, targetID)
	if target == nil {
		return nil, apperrors.ErrTransactionNotFound
	}

	groupID := target.GroupID()
	if groupID == nil || scope == ScopeSingle {
		return []uint{targetID}, nil
	}

	members := groupMembers(transactions, *groupID)
	if err := checkIntegrity(target, members); err != nil {
		return []uint{targetID}, err
	}

	ids := make([]uint, 0, len(members))
	switch scope {
	case ScopeAll:
		for _, m := range members {
			ids = append(ids, m.ID)
		}
	case ScopeFuture:
		for _, m := range members {
			if isAtOrAfter(&m, target) {
				ids = append(ids, m.ID)
			}
		}
	}
	return ids, nil
}

func findByID(transactions []models.Transaction, id uint) *models.Transaction {
	for i := range transactions {
		if transactions[i].ID == id {
			return &transactions[i]
		}
	}
	return nil
}

func groupMembers(transactions []models.Transaction, groupID string) []models.Transaction {
	var members []models.Transaction
	for _, t := range transactions {
		if g := t.GroupID(); g != nil && *g == groupID {
			members = append(members, t)
		}
	}
	return members
}

// checkIntegrity verifies that every member of the group carries a
// coherent set of series fields.
func checkIntegrity(target *models.Transaction, members []models.Transaction) error {
	for i := range members {
		m := &members[i]
		if m.IsInstallment() && m.IsRecurring() {
			return apperrors.ErrSeriesIntegrity
		}
		if m.IsInstallment() && (m.InstallmentIndex == nil || m.InstallmentTotal == nil) {
			return apperrors.ErrSeriesIntegrity
		}
	}
	if target.IsInstallment() != members[0].IsInstallment() {
		return apperrors.ErrSeriesIntegrity
	}
	return nil
}

// isAtOrAfter reports whether m sits at or after target in series order:
// ordinal position for installments, calendar date for recurring members.
func isAtOrAfter(m, target *models.Transaction) bool {
	if target.IsInstallment() {
		return *m.InstallmentIndex >= *target.InstallmentIndex
	}
	return !Day(m.Date).Before(Day(target.Date))
}
