package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/money"
	"centavo/internal/services"
)

// InvoiceHandler handles credit card invoice requests.
type InvoiceHandler struct {
	invoiceService services.InvoiceServicer
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService services.InvoiceServicer) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// GetInvoice returns the invoice for the billing period containing the
// reference date. The "date" query defaults to today.
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	referenceDate := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		referenceDate, err = parseDate(raw)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	inv, err := h.invoiceService.GetInvoice(accountID, referenceDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invoice":         inv,
		"total_formatted": money.Format(inv.Total),
	})
}

// setInvoicePaidRequest marks a billing period as paid or unpaid.
type setInvoicePaidRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	IsPaid      *bool  `json:"is_paid" binding:"required"`
}

// SetInvoicePaid records the paid state of one billing period.
func (h *InvoiceHandler) SetInvoicePaid(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req setInvoicePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.invoiceService.SetInvoicePaid(accountID, periodStart, periodEnd, *req.IsPaid); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_paid": *req.IsPaid})
}
