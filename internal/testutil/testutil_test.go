package testutil_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/errors"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "accounts", "categories", "transactions", "budgets", "recurring_payments", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	testutil.CreateTestUser(t, first)

	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected a fresh database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	account := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(50))
	if !account.Balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected balance 50, got %s", account.Balance)
	}

	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}

	date := testutil.Date(2024, 1, 15)
	tx := testutil.CreateTestTransaction(t, db, user.ID, account.ID, &category.ID, models.TransactionTypeIncome, decimal.NewFromInt(10), date)
	if !tx.Date.Equal(date) {
		t.Errorf("expected date %v, got %v", date, tx.Date)
	}

	budget := testutil.CreateTestBudget(t, db, user.ID, category.ID, date, date.AddDate(0, 1, 0))
	if !budget.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected budget amount 100, got %s", budget.Amount)
	}

	payment := testutil.CreateTestRecurringPayment(t, db, user.ID, category.ID, account.ID, models.FrequencyMonthly, date, nil)
	testutil.Deactivate(t, db, payment)

	var stored models.RecurringPayment
	if err := db.First(&stored, "id = ?", payment.ID).Error; err != nil {
		t.Fatalf("failed to reload payment: %v", err)
	}
	if stored.IsActive {
		t.Error("expected payment to be deactivated")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
