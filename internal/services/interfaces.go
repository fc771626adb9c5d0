package services

import (
	"io"
	"time"

	"gorm.io/gorm"

	"centavo/internal/invoice"
	"centavo/internal/models"
	"centavo/internal/pagination"
	"centavo/internal/reconcile"
	"centavo/internal/series"
)

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateCashAccount(name, description, currency string, initialBalance int64) (*models.Account, error)
	CreateCreditCardAccount(name, description, currency string, creditLimit int64, closingDay, dueDay *int) (*models.Account, error)
	CreateDebtAccount(name, description, currency string, initialBalance int64, interestRate float64) (*models.Account, error)
	GetAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(accountID uint) (*models.Account, error)
	UpdateAccount(accountID uint, fields AccountUpdate) (*models.Account, error)
	UpdateAccountBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount int64) error
}

// AccountUpdate holds optional fields for updating an account.
type AccountUpdate struct {
	Name        *string
	Description *string
	CreditLimit *int64
	ClosingDay  *int
	DueDay      *int
	IsActive    *bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, description, icon, color string, parentID *uint) (*models.Category, error)
	GetCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID uint) (*models.Category, error)
	DeleteCategory(categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	AccountID  *uint
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
	MinAmount  *int64
	MaxAmount  *int64
}

// SeriesRequest carries the planning input for an installment or recurring
// series.
type SeriesRequest struct {
	AccountID   uint
	CategoryID  *uint
	Type        models.TransactionType
	Amount      int64 // principal for installments, monthly amount for recurring
	Count       int
	StartDate   time.Time
	Description string
	Tags        []string
}

// DeleteResult reports how a scoped deletion resolved. Warning carries the
// SERIES_INTEGRITY code when inconsistent series fields forced the scope
// down to the target alone.
type DeleteResult struct {
	DeletedCount int    `json:"deleted_count"`
	Warning      string `json:"warning,omitempty"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(accountID uint, categoryID *uint, transactionType models.TransactionType, amount int64, description string, date time.Time, tags []string) (*models.Transaction, error)
	CreateInstallmentSeries(req SeriesRequest) ([]models.Transaction, error)
	CreateRecurringSeries(req SeriesRequest) ([]models.Transaction, error)
	CreateBatch(tx *gorm.DB, transactions []models.Transaction) ([]models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(transactionID uint) (*models.Transaction, error)
	DeleteTransaction(transactionID uint, scope series.DeleteScope) (*DeleteResult, error)
	GetGroupSummary(groupID string, asOf time.Time) (*series.GroupSummary, error)
}

// ImportSession is one in-flight reconciliation flow: parsed candidates plus
// the user's working selection, held in memory until commit or cancel.
type ImportSession struct {
	ID        string            `json:"id"`
	AccountID uint              `json:"account_id"`
	Session   reconcile.Session `json:"session"`
	CreatedAt time.Time         `json:"created_at"`
}

// ImportServicer defines the contract for statement import flows.
type ImportServicer interface {
	Start(accountID uint, statement io.Reader) (*ImportSession, error)
	Get(sessionID string) (*ImportSession, error)
	ToggleOne(sessionID string, index int) (*ImportSession, error)
	ToggleAll(sessionID string) (*ImportSession, error)
	SetCategory(sessionID string, index int, categoryID *uint) (*ImportSession, error)
	Remove(sessionID string, index int) (*ImportSession, error)
	Commit(sessionID string) (int, error)
	Cancel(sessionID string) error
}

// Invoice is the derived state of one credit card billing period.
type Invoice struct {
	AccountID uint           `json:"account_id"`
	Period    invoice.Period `json:"period"`
	Total     int64          `json:"total"`
	IsPaid    bool           `json:"is_paid"`
}

// InvoiceServicer defines the contract for credit card invoice logic.
type InvoiceServicer interface {
	GetInvoice(accountID uint, referenceDate time.Time) (*Invoice, error)
	SetInvoicePaid(accountID uint, periodStart, periodEnd time.Time, paid bool) error
}
