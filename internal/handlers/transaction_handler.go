package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/money"
	"centavo/internal/pagination"
	"centavo/internal/series"
	"centavo/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	AccountID   uint                   `json:"account_id" binding:"required"`
	CategoryID  *uint                  `json:"category_id"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      string                 `json:"amount" binding:"required"`
	Description string                 `json:"description" binding:"max=500"`
	Date        *string                `json:"date"`
	Tags        []string               `json:"tags" binding:"max=20,dive,max=50"`
}

// CreateTransaction handles the creation of a new standalone transaction
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date := time.Now()
	if req.Date != nil && *req.Date != "" {
		if date, err = parseDate(*req.Date); err != nil {
			respondWithError(c, err)
			return
		}
	}

	transaction, err := h.transactionService.CreateTransaction(
		req.AccountID, req.CategoryID, req.Type, amount, req.Description, date, req.Tags)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// CreateSeriesRequest represents the request payload for planning a series
// of transactions: a purchase split into installments, or a recurring
// monthly charge.
type CreateSeriesRequest struct {
	AccountID   uint                   `json:"account_id" binding:"required"`
	CategoryID  *uint                  `json:"category_id"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      string                 `json:"amount" binding:"required"`
	Count       int                    `json:"count" binding:"required"`
	StartDate   string                 `json:"start_date" binding:"required"`
	Description string                 `json:"description" binding:"max=500"`
	Tags        []string               `json:"tags" binding:"max=20,dive,max=50"`
}

func (h *TransactionHandler) seriesRequest(c *gin.Context) (services.SeriesRequest, bool) {
	var req CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return services.SeriesRequest{}, false
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return services.SeriesRequest{}, false
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return services.SeriesRequest{}, false
	}

	return services.SeriesRequest{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Amount:      amount,
		Count:       req.Count,
		StartDate:   startDate,
		Description: req.Description,
		Tags:        req.Tags,
	}, true
}

// CreateInstallmentSeries handles splitting a purchase into installments.
// The request amount is the principal; it is split across count monthly
// transactions that sum back to it exactly.
func (h *TransactionHandler) CreateInstallmentSeries(c *gin.Context) {
	req, ok := h.seriesRequest(c)
	if !ok {
		return
	}

	transactions, err := h.transactionService.CreateInstallmentSeries(req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transactions": transactions})
}

// CreateRecurringSeries handles materializing a recurring monthly charge.
// The request amount is charged as-is on every occurrence.
func (h *TransactionHandler) CreateRecurringSeries(c *gin.Context) {
	req, ok := h.seriesRequest(c)
	if !ok {
		return
	}

	transactions, err := h.transactionService.CreateRecurringSeries(req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transactions": transactions})
}

// transactionListQuery holds the query parameters for listing transactions.
type transactionListQuery struct {
	pagination.PageRequest
	AccountID  *uint   `form:"account_id"`
	From       *string `form:"from"`
	To         *string `form:"to"`
	Type       *string `form:"type" binding:"omitempty,transaction_type"`
	CategoryID *uint   `form:"category_id"`
	MinAmount  *string `form:"min_amount"`
	MaxAmount  *string `form:"max_amount"`
}

// GetTransactions handles listing transactions with optional filters.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		AccountID:  query.AccountID,
		CategoryID: query.CategoryID,
	}
	if query.From != nil {
		from, err := parseDate(*query.From)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.FromDate = &from
	}
	if query.To != nil {
		to, err := parseDate(*query.To)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.ToDate = &to
	}
	if query.Type != nil {
		txType := models.TransactionType(*query.Type)
		filter.Type = &txType
	}
	if query.MinAmount != nil {
		minAmount, err := parseAmount(*query.MinAmount)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.MinAmount = &minAmount
	}
	if query.MaxAmount != nil {
		maxAmount, err := parseAmount(*query.MaxAmount)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.MaxAmount = &maxAmount
	}

	result, err := h.transactionService.GetTransactions(query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTransaction handles retrieving a single transaction.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// deleteTransactionQuery holds the query parameters for scoped deletion.
type deleteTransactionQuery struct {
	Scope string `form:"scope" binding:"omitempty,delete_scope"`
}

// DeleteTransaction handles scoped deletion. The scope query parameter
// selects how much of the series goes with the target: single (default),
// future, or all. Standalone transactions ignore the scope.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query deleteTransactionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	scope, err := series.ParseScope(query.Scope)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.DeleteTransaction(transactionID, scope)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetGroupSummary handles the series summary projection.
func (h *TransactionHandler) GetGroupSummary(c *gin.Context) {
	groupID := c.Param("groupId")
	if groupID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "group id is required"))
		return
	}

	summary, err := h.transactionService.GetGroupSummary(groupID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":          summary,
		"remaining_amount": money.Format(summary.RemainingAmount),
		"monthly_amount":   money.Format(summary.MonthlyAmount),
	})
}
