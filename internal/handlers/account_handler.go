package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
	"centavo/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the request payload for creating an account
type CreateAccountRequest struct {
	Name        string             `json:"name" binding:"required,max=100"`
	Type        models.AccountType `json:"type" binding:"required,account_type"`
	Description string             `json:"description" binding:"max=500"`
	Currency    string             `json:"currency" binding:"omitempty,iso4217"`
	Balance     *string            `json:"balance"`

	// Credit card fields
	CreditLimit *string `json:"credit_limit"`
	ClosingDay  *int    `json:"closing_day" binding:"omitempty,day_of_month"`
	DueDay      *int    `json:"due_day" binding:"omitempty,day_of_month"`

	// Debt fields
	InterestRate float64 `json:"interest_rate" binding:"omitempty,gte=0"`
}

// CreateAccount handles the creation of a new account
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	var balance int64
	if req.Balance != nil {
		var err error
		if balance, err = parseAmount(*req.Balance); err != nil {
			respondWithError(c, err)
			return
		}
	}

	var account *models.Account
	var err error
	switch req.Type {
	case models.AccountTypeCash:
		account, err = h.accountService.CreateCashAccount(req.Name, req.Description, currency, balance)
	case models.AccountTypeCreditCard:
		var creditLimit int64
		if req.CreditLimit != nil {
			if creditLimit, err = parseAmount(*req.CreditLimit); err != nil {
				respondWithError(c, err)
				return
			}
		}
		account, err = h.accountService.CreateCreditCardAccount(req.Name, req.Description, currency, creditLimit, req.ClosingDay, req.DueDay)
	case models.AccountTypeDebt:
		account, err = h.accountService.CreateDebtAccount(req.Name, req.Description, currency, balance, req.InterestRate)
	default:
		err = apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported account type")
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetAccounts handles listing accounts.
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.accountService.GetAccounts(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAccount handles retrieving a single account.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccountRequest represents the request payload for updating an account
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	CreditLimit *string `json:"credit_limit"`
	ClosingDay  *int    `json:"closing_day" binding:"omitempty,day_of_month"`
	DueDay      *int    `json:"due_day" binding:"omitempty,day_of_month"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateAccount handles updating an account's fields.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.AccountUpdate{
		Name:        req.Name,
		Description: req.Description,
		ClosingDay:  req.ClosingDay,
		DueDay:      req.DueDay,
		IsActive:    req.IsActive,
	}
	if req.CreditLimit != nil {
		creditLimit, err := parseAmount(*req.CreditLimit)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.CreditLimit = &creditLimit
	}

	account, err := h.accountService.UpdateAccount(accountID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}
