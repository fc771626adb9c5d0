package testutil_test

import (
	"testing"
	"time"

	"centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"accounts", "categories", "transactions", "invoice_payments"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	account := testutil.CreateTestCashAccountWithBalance(t, db, 5000)
	if account.ID == 0 {
		t.Fatal("account should have a non-zero ID")
	}
	if account.Balance != 5000 {
		t.Errorf("expected balance 5000, got %d", account.Balance)
	}

	card := testutil.CreateTestCreditCardAccount(t, db, 10)
	if !card.IsCreditCard() {
		t.Errorf("expected credit card account, got %s", card.Type)
	}
	if card.ClosingDay == nil || *card.ClosingDay != 10 {
		t.Error("expected closing day 10")
	}

	category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}

	tx := testutil.CreateTestTransactionOn(t, db, account.ID, models.TransactionTypeIncome, 1000,
		time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC))
	if tx.Amount != 1000 {
		t.Errorf("expected amount 1000, got %d", tx.Amount)
	}
	if want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC); !tx.Date.Equal(want) {
		t.Errorf("expected date normalized to %v, got %v", want, tx.Date)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
