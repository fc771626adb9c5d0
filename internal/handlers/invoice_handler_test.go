package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/invoice"
	"centavo/internal/services"
)

// --- mock invoice service ---

type mockInvoiceService struct {
	getInvoiceFn     func(accountID uint, referenceDate time.Time) (*services.Invoice, error)
	setInvoicePaidFn func(accountID uint, periodStart, periodEnd time.Time, paid bool) error
}

func (m *mockInvoiceService) GetInvoice(accountID uint, referenceDate time.Time) (*services.Invoice, error) {
	if m.getInvoiceFn != nil {
		return m.getInvoiceFn(accountID, referenceDate)
	}
	return &services.Invoice{AccountID: accountID}, nil
}

func (m *mockInvoiceService) SetInvoicePaid(accountID uint, periodStart, periodEnd time.Time, paid bool) error {
	if m.setInvoicePaidFn != nil {
		return m.setInvoicePaidFn(accountID, periodStart, periodEnd, paid)
	}
	return nil
}

var _ services.InvoiceServicer = (*mockInvoiceService)(nil)

func setupInvoiceRouter(handler *InvoiceHandler) *gin.Engine {
	r := gin.New()
	r.GET("/accounts/:id/invoice", handler.GetInvoice)
	r.PUT("/accounts/:id/invoice/paid", handler.SetInvoicePaid)
	return r
}

func TestInvoiceHandler_GetInvoice(t *testing.T) {
	t.Run("returns invoice for reference date", func(t *testing.T) {
		invSvc := &mockInvoiceService{
			getInvoiceFn: func(accountID uint, referenceDate time.Time) (*services.Invoice, error) {
				if want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC); !referenceDate.Equal(want) {
					t.Errorf("expected reference date %v, got %v", want, referenceDate)
				}
				return &services.Invoice{
					AccountID: accountID,
					Period: invoice.Period{
						Start:      time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
						End:        time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC),
						ClosingDay: 10,
					},
					Total: 8000,
				}, nil
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(invSvc))

		rec := doRequest(r, "GET", "/accounts/3/invoice?date=2024-03-15", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_formatted"] != "80.00" {
			t.Errorf("expected total 80.00, got %v", result["total_formatted"])
		}
	})

	t.Run("returns 400 on bad reference date", func(t *testing.T) {
		r := setupInvoiceRouter(NewInvoiceHandler(&mockInvoiceService{}))

		rec := doRequest(r, "GET", "/accounts/3/invoice?date=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for non credit card account", func(t *testing.T) {
		invSvc := &mockInvoiceService{
			getInvoiceFn: func(_ uint, _ time.Time) (*services.Invoice, error) {
				return nil, apperrors.ErrNotCreditCard
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(invSvc))

		rec := doRequest(r, "GET", "/accounts/3/invoice", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOT_CREDIT_CARD")
	})

	t.Run("returns 409 when closing day missing", func(t *testing.T) {
		invSvc := &mockInvoiceService{
			getInvoiceFn: func(_ uint, _ time.Time) (*services.Invoice, error) {
				return nil, apperrors.ErrMissingClosingDay
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(invSvc))

		rec := doRequest(r, "GET", "/accounts/3/invoice", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestInvoiceHandler_SetInvoicePaid(t *testing.T) {
	t.Run("passes period and flag through", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		var gotPaid bool
		invSvc := &mockInvoiceService{
			setInvoicePaidFn: func(_ uint, periodStart, periodEnd time.Time, paid bool) error {
				gotStart, gotEnd, gotPaid = periodStart, periodEnd, paid
				return nil
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(invSvc))

		rec := doRequest(r, "PUT", "/accounts/3/invoice/paid",
			`{"period_start":"2024-03-11","period_end":"2024-04-10","is_paid":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotPaid {
			t.Error("expected paid flag true")
		}
		if want := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC); !gotStart.Equal(want) {
			t.Errorf("expected start %v, got %v", want, gotStart)
		}
		if want := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC); !gotEnd.Equal(want) {
			t.Errorf("expected end %v, got %v", want, gotEnd)
		}
	})

	t.Run("accepts explicit false", func(t *testing.T) {
		called := false
		invSvc := &mockInvoiceService{
			setInvoicePaidFn: func(_ uint, _, _ time.Time, paid bool) error {
				called = true
				if paid {
					t.Error("expected paid flag false")
				}
				return nil
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(invSvc))

		rec := doRequest(r, "PUT", "/accounts/3/invoice/paid",
			`{"period_start":"2024-03-11","period_end":"2024-04-10","is_paid":false}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !called {
			t.Error("expected service call")
		}
	})

	t.Run("returns 400 on missing period", func(t *testing.T) {
		r := setupInvoiceRouter(NewInvoiceHandler(&mockInvoiceService{}))

		rec := doRequest(r, "PUT", "/accounts/3/invoice/paid", `{"is_paid":true}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
