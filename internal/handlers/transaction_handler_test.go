package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
	"centavo/internal/series"
	"centavo/internal/services"
	"centavo/internal/validator"
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn       func(accountID uint, categoryID *uint, transactionType models.TransactionType, amount int64, description string, date time.Time, tags []string) (*models.Transaction, error)
	createInstallmentSeriesFn func(req services.SeriesRequest) ([]models.Transaction, error)
	createRecurringSeriesFn   func(req services.SeriesRequest) ([]models.Transaction, error)
	getTransactionsFn         func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn      func(transactionID uint) (*models.Transaction, error)
	deleteTransactionFn       func(transactionID uint, scope series.DeleteScope) (*services.DeleteResult, error)
	getGroupSummaryFn         func(groupID string, asOf time.Time) (*series.GroupSummary, error)
}

func (m *mockTransactionService) CreateTransaction(accountID uint, categoryID *uint, transactionType models.TransactionType, amount int64, description string, date time.Time, tags []string) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(accountID, categoryID, transactionType, amount, description, date, tags)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) CreateInstallmentSeries(req services.SeriesRequest) ([]models.Transaction, error) {
	if m.createInstallmentSeriesFn != nil {
		return m.createInstallmentSeriesFn(req)
	}
	return nil, nil
}

func (m *mockTransactionService) CreateRecurringSeries(req services.SeriesRequest) ([]models.Transaction, error) {
	if m.createRecurringSeriesFn != nil {
		return m.createRecurringSeriesFn(req)
	}
	return nil, nil
}

func (m *mockTransactionService) CreateBatch(_ *gorm.DB, transactions []models.Transaction) ([]models.Transaction, error) {
	return transactions, nil
}

func (m *mockTransactionService) GetTransactions(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getTransactionsFn != nil {
		return m.getTransactionsFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(transactionID uint) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(transactionID uint, scope series.DeleteScope) (*services.DeleteResult, error) {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(transactionID, scope)
	}
	return &services.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockTransactionService) GetGroupSummary(groupID string, asOf time.Time) (*series.GroupSummary, error) {
	if m.getGroupSummaryFn != nil {
		return m.getGroupSummaryFn(groupID, asOf)
	}
	return &series.GroupSummary{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	r.POST("/transactions", handler.CreateTransaction)
	r.POST("/transactions/installments", handler.CreateInstallmentSeries)
	r.POST("/transactions/recurring", handler.CreateRecurringSeries)
	r.GET("/transactions", handler.GetTransactions)
	r.GET("/transactions/:id", handler.GetTransaction)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	r.GET("/transactions/groups/:groupId/summary", handler.GetGroupSummary)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(accountID uint, _ *uint, txType models.TransactionType, amount int64, _ string, _ time.Time, _ []string) (*models.Transaction, error) {
				return &models.Transaction{
					Base:      models.Base{ID: 1},
					AccountID: accountID,
					Type:      txType,
					Amount:    amount,
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":1,"type":"expense","amount":"50.00","description":"Lunch"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["amount"].(float64) != 5000 {
			t.Errorf("expected amount 5000 cents, got %v", tx["amount"])
		}
	})

	t.Run("returns 400 on missing account_id", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":"50.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":1,"type":"transfer","amount":"50.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on sub-cent amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":1,"type":"expense","amount":"50.005"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 when account not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ uint, _ *uint, _ models.TransactionType, _ int64, _ string, _ time.Time, _ []string) (*models.Transaction, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":999,"type":"expense","amount":"50.00"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})
}

func TestTransactionHandler_CreateInstallmentSeries(t *testing.T) {
	t.Run("returns 201 with planned series", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createInstallmentSeriesFn: func(req services.SeriesRequest) ([]models.Transaction, error) {
				if req.Amount != 100000 {
					t.Errorf("expected principal 100000 cents, got %d", req.Amount)
				}
				if req.Count != 3 {
					t.Errorf("expected count 3, got %d", req.Count)
				}
				return make([]models.Transaction, 3), nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions/installments",
			`{"account_id":1,"type":"expense","amount":"1000.00","count":3,"start_date":"2024-01-15","description":"Laptop"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if txns := result["transactions"].([]interface{}); len(txns) != 3 {
			t.Errorf("expected 3 transactions, got %d", len(txns))
		}
	})

	t.Run("returns 400 on missing start_date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "POST", "/transactions/installments",
			`{"account_id":1,"type":"expense","amount":"1000.00","count":3}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad date format", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "POST", "/transactions/installments",
			`{"account_id":1,"type":"expense","amount":"1000.00","count":3,"start_date":"15/01/2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on out-of-range count", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createInstallmentSeriesFn: func(_ services.SeriesRequest) ([]models.Transaction, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "count must be between 2 and 60")
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions/installments",
			`{"account_id":1,"type":"expense","amount":"1000.00","count":61,"start_date":"2024-01-15"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_CreateRecurringSeries(t *testing.T) {
	txSvc := &mockTransactionService{
		createRecurringSeriesFn: func(req services.SeriesRequest) ([]models.Transaction, error) {
			if req.Amount != 4990 {
				t.Errorf("expected monthly amount 4990 cents, got %d", req.Amount)
			}
			return make([]models.Transaction, 6), nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(txSvc))

	rec := doRequest(r, "POST", "/transactions/recurring",
		`{"account_id":1,"type":"expense","amount":"49.90","count":6,"start_date":"2024-03-10","description":"Gym"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("passes scope through", func(t *testing.T) {
		var gotScope series.DeleteScope
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_ uint, scope series.DeleteScope) (*services.DeleteResult, error) {
				gotScope = scope
				return &services.DeleteResult{DeletedCount: 3}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "DELETE", "/transactions/7?scope=future", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotScope != series.ScopeFuture {
			t.Errorf("expected future scope, got %s", gotScope)
		}
		result := parseJSON(t, rec)
		if result["deleted_count"].(float64) != 3 {
			t.Errorf("expected deleted_count 3, got %v", result["deleted_count"])
		}
	})

	t.Run("surfaces integrity warning", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_ uint, _ series.DeleteScope) (*services.DeleteResult, error) {
				return &services.DeleteResult{DeletedCount: 1, Warning: "SERIES_INTEGRITY"}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "DELETE", "/transactions/7?scope=all", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["warning"] != "SERIES_INTEGRITY" {
			t.Errorf("expected warning SERIES_INTEGRITY, got %v", result["warning"])
		}
		if result["deleted_count"].(float64) != 1 {
			t.Errorf("expected deleted_count 1, got %v", result["deleted_count"])
		}
	})

	t.Run("defaults to single scope", func(t *testing.T) {
		var gotScope series.DeleteScope
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_ uint, scope series.DeleteScope) (*services.DeleteResult, error) {
				gotScope = scope
				return &services.DeleteResult{DeletedCount: 1}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "DELETE", "/transactions/7", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotScope != series.ScopeSingle {
			t.Errorf("expected single scope, got %s", gotScope)
		}
	})

	t.Run("returns 400 on unknown scope", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "DELETE", "/transactions/7?scope=everything", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when transaction not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_ uint, _ series.DeleteScope) (*services.DeleteResult, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "DELETE", "/transactions/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetGroupSummary(t *testing.T) {
	t.Run("returns summary with formatted amounts", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getGroupSummaryFn: func(groupID string, _ time.Time) (*series.GroupSummary, error) {
				return &series.GroupSummary{
					GroupID:           groupID,
					Kind:              series.KindInstallment,
					PaidInstallments:  3,
					TotalInstallments: 5,
					RemainingAmount:   20000,
					TotalAmount:       50000,
					MonthlyAmount:     10000,
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions/groups/abc/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["remaining_amount"] != "200.00" {
			t.Errorf("expected remaining 200.00, got %v", result["remaining_amount"])
		}
		if result["monthly_amount"] != "100.00" {
			t.Errorf("expected monthly 100.00, got %v", result["monthly_amount"])
		}
	})

	t.Run("returns 404 on unknown group", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getGroupSummaryFn: func(_ string, _ time.Time) (*series.GroupSummary, error) {
				return nil, apperrors.ErrSeriesNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions/groups/missing/summary", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			getTransactionsFn: func(_ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions?account_id=4&type=expense&from=2024-03-01&to=2024-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.AccountID == nil || *gotFilter.AccountID != 4 {
			t.Error("expected account filter 4")
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Error("expected expense type filter")
		}
		if gotFilter.FromDate == nil || gotFilter.ToDate == nil {
			t.Error("expected date range filter")
		}
	})

	t.Run("converts amount bounds to cents", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			getTransactionsFn: func(_ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions?min_amount=10.00&max_amount=99.99", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.MinAmount == nil || *gotFilter.MinAmount != 1000 {
			t.Error("expected min amount 1000 cents")
		}
		if gotFilter.MaxAmount == nil || *gotFilter.MaxAmount != 9999 {
			t.Error("expected max amount 9999 cents")
		}
	})

	t.Run("returns 400 on bad type filter", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "GET", "/transactions?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad amount bound", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "GET", "/transactions?min_amount=ten", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}
