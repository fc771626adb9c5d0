package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/logger"
	"centavo/internal/models"
	"centavo/internal/pagination"
	"centavo/internal/series"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// CreateTransaction creates a single standalone transaction.
func (s *transactionService) CreateTransaction(
	accountID uint,
	categoryID *uint,
	transactionType models.TransactionType,
	amount int64,
	description string,
	date time.Time,
	tags []string,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if accountID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(categoryID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		AccountID:   account.ID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Date:        series.Day(date),
		Tags:        tags,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.UpdateAccountBalance(tx, account, transactionType, amount)
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// CreateInstallmentSeries plans and persists an installment group: the
// principal split into req.Count monthly transactions sharing one group id.
// Planning errors surface before anything touches the store.
func (s *transactionService) CreateInstallmentSeries(req SeriesRequest) ([]models.Transaction, error) {
	plan, err := series.PlanInstallments(req.Amount, req.Count, req.StartDate)
	if err != nil {
		return nil, err
	}
	return s.persistPlan(plan, req)
}

// CreateRecurringSeries plans and persists a recurring group: req.Count
// monthly occurrences of a fixed charge sharing one group id.
func (s *transactionService) CreateRecurringSeries(req SeriesRequest) ([]models.Transaction, error) {
	plan, err := series.PlanRecurring(req.Amount, req.Count, req.StartDate)
	if err != nil {
		return nil, err
	}
	return s.persistPlan(plan, req)
}

func (s *transactionService) persistPlan(plan *series.Plan, req SeriesRequest) ([]models.Transaction, error) {
	if _, err := s.accountService.GetAccountByID(req.AccountID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(req.CategoryID); err != nil {
		return nil, err
	}

	drafts := plan.Drafts(req.AccountID, req.CategoryID, req.Type, req.Description, req.Tags)

	var created []models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		created, txErr = s.CreateBatch(tx, drafts)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateBatch inserts transactions and applies their net balance effect,
// all-or-nothing, using the given database handle. Callers that need
// atomicity with other writes pass their own transaction handle.
func (s *transactionService) CreateBatch(tx *gorm.DB, transactions []models.Transaction) ([]models.Transaction, error) {
	if tx == nil {
		tx = s.db
	}
	if len(transactions) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no transactions to create")
	}

	if err := tx.Create(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Net balance delta per account.
	deltas := make(map[uint]int64)
	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case models.TransactionTypeIncome:
			deltas[t.AccountID] += t.Amount
		case models.TransactionTypeExpense:
			deltas[t.AccountID] -= t.Amount
		default:
			return nil, apperrors.ErrInvalidTransactionType
		}
	}
	for accountID, delta := range deltas {
		err := tx.Model(&models.Account{}).Where("id = ?", accountID).
			Update("balance", gorm.Expr("balance + ?", delta)).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return transactions, nil
}

// GetTransactions retrieves a paginated, filtered list of transactions.
func (s *transactionService) GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{})
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID.
func (s *transactionService) GetTransactionByID(transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction deletes a transaction with the given scope and reverses
// the balance effect of every deleted member. For a standalone transaction
// every scope collapses to single. A series whose fields are inconsistent
// is deleted with the safest scope (single); the fault is logged and
// reported back through the result's warning.
func (s *transactionService) DeleteTransaction(transactionID uint, scope series.DeleteScope) (*DeleteResult, error) {
	target, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}

	members := []models.Transaction{*target}
	if groupID := target.GroupID(); groupID != nil {
		members, err = s.loadGroup(*groupID)
		if err != nil {
			return nil, err
		}
	}

	result := &DeleteResult{}
	ids, err := series.ResolveScope(members, transactionID, scope)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSeriesIntegrity) {
			return nil, err
		}
		logger.Get().Warnw("series integrity fault, falling back to single-item deletion",
			"transaction_id", transactionID,
			"scope", scope,
		)
		result.Warning = apperrors.ErrSeriesIntegrity.Code
	}

	doomed := make([]models.Transaction, 0, len(ids))
	idSet := make(map[uint]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for _, m := range members {
		if idSet[m.ID] {
			doomed = append(doomed, m)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Transaction{}, ids).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reverse each member's balance effect.
		for i := range doomed {
			t := &doomed[i]
			var delta int64
			switch t.Type {
			case models.TransactionTypeIncome:
				delta = -t.Amount
			case models.TransactionTypeExpense:
				delta = t.Amount
			default:
				return apperrors.ErrInvalidTransactionType
			}
			err := tx.Model(&models.Account{}).Where("id = ?", t.AccountID).
				Update("balance", gorm.Expr("balance + ?", delta)).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.DeletedCount = len(ids)
	return result, nil
}

// GetGroupSummary recomputes the summary projection for a series from its
// current members.
func (s *transactionService) GetGroupSummary(groupID string, asOf time.Time) (*series.GroupSummary, error) {
	members, err := s.loadGroup(groupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, apperrors.ErrSeriesNotFound
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return series.Summarize(members, asOf)
}

func (s *transactionService) loadGroup(groupID string) ([]models.Transaction, error) {
	var members []models.Transaction
	err := s.db.
		Where("installment_group_id = ? OR recurring_group_id = ?", groupID, groupID).
		Order("date").
		Find(&members).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}

func (s *transactionService) checkCategory(categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	var category models.Category
	if err := s.db.First(&category, *categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
