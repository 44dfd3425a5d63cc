package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/clock"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/pagination"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/testutil"
)

func newTestTransactionService(db *gorm.DB) TransactionServicer {
	clk := clock.Fixed(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	return NewTransactionService(db, NewAccountService(db, clk), clk)
}

func balanceOf(t *testing.T, db *gorm.DB, accountID string) decimal.Decimal {
	t.Helper()
	var account models.Account
	if err := db.First(&account, "id = ?", accountID).Error; err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}
	return account.Balance
}

func TestCreateTransaction(t *testing.T) {
	t.Run("income_adds_to_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(100))
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		tx, err := svc.CreateTransaction(user.ID, account.ID, &cat.ID, models.TransactionTypeIncome, decimal.RequireFromString("49.99"), "Salary", testutil.Date(2024, 1, 5))
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected transaction ID")
		}
		if got := balanceOf(t, db, account.ID); !got.Equal(decimal.RequireFromString("149.99")) {
			t.Errorf("expected balance 149.99, got %s", got)
		}
	})

	t.Run("expense_subtracts_from_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(100))

		_, err := svc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, decimal.NewFromInt(30), "Lunch", time.Time{})
		testutil.AssertNoError(t, err)

		if got := balanceOf(t, db, account.ID); !got.Equal(decimal.NewFromInt(70)) {
			t.Errorf("expected balance 70, got %s", got)
		}
	})

	t.Run("zero_date_defaults_to_now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCashAccount(t, db, user.ID)

		tx, err := svc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, decimal.NewFromInt(1), "", time.Time{})
		testutil.AssertNoError(t, err)
		if !tx.Date.Equal(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("expected the clock's now, got %v", tx.Date)
		}
	})

	tests := []struct {
		name   string
		txType models.TransactionType
		amount decimal.Decimal
		code   string
	}{
		{"zero_amount", models.TransactionTypeExpense, decimal.Zero, "INVALID_INPUT"},
		{"negative_amount", models.TransactionTypeExpense, decimal.NewFromInt(-5), "INVALID_INPUT"},
		{"transfer_type", models.TransactionTypeTransfer, decimal.NewFromInt(5), "INVALID_TRANSACTION_TYPE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			svc := newTestTransactionService(db)
			user := testutil.CreateTestUser(t, db)
			account := testutil.CreateTestCashAccount(t, db, user.ID)

			_, err := svc.CreateTransaction(user.ID, account.ID, nil, tt.txType, tt.amount, "", time.Time{})
			testutil.AssertAppError(t, err, tt.code)
		})
	}

	t.Run("inactive_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCashAccount(t, db, user.ID)
		testutil.Deactivate(t, db, account)

		_, err := svc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, decimal.NewFromInt(1), "", time.Time{})
		testutil.AssertAppError(t, err, "REFERENCE_INACTIVE")
	})

	t.Run("other_users_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCashAccount(t, db, other.ID)

		_, err := svc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, decimal.NewFromInt(1), "", time.Time{})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("deleted_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCashAccount(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.AssertNoError(t, db.Delete(cat).Error)

		_, err := svc.CreateTransaction(user.ID, account.ID, &cat.ID, models.TransactionTypeExpense, decimal.NewFromInt(1), "", time.Time{})
		testutil.AssertAppError(t, err, "REFERENCE_INACTIVE")
		if got := balanceOf(t, db, account.ID); !got.IsZero() {
			t.Errorf("rejected transaction must not move the balance, got %s", got)
		}
	})
}

func TestCreateTransfer(t *testing.T) {
	t.Run("moves_money", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		from := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(100))
		to := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(10))

		tx, err := svc.CreateTransfer(user.ID, from.ID, to.ID, decimal.NewFromInt(40), "Savings", time.Time{})
		testutil.AssertNoError(t, err)

		if tx.Type != models.TransactionTypeTransfer || tx.ToAccountID == nil || *tx.ToAccountID != to.ID {
			t.Errorf("unexpected transfer: %+v", tx)
		}
		if got := balanceOf(t, db, from.ID); !got.Equal(decimal.NewFromInt(60)) {
			t.Errorf("expected source balance 60, got %s", got)
		}
		if got := balanceOf(t, db, to.ID); !got.Equal(decimal.NewFromInt(50)) {
			t.Errorf("expected destination balance 50, got %s", got)
		}
	})

	t.Run("same_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(100))

		_, err := svc.CreateTransfer(user.ID, account.ID, account.ID, decimal.NewFromInt(1), "", time.Time{})
		testutil.AssertAppError(t, err, "SAME_ACCOUNT_TRANSFER")
	})

	t.Run("insufficient_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		from := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(10))
		to := testutil.CreateTestCashAccount(t, db, user.ID)

		_, err := svc.CreateTransfer(user.ID, from.ID, to.ID, decimal.NewFromInt(11), "", time.Time{})
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")
	})

	t.Run("credit_card_source_may_exceed_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCreditCardAccount(t, db, user.ID, decimal.Zero)
		to := testutil.CreateTestCashAccount(t, db, user.ID)

		_, err := svc.CreateTransfer(user.ID, card.ID, to.ID, decimal.NewFromInt(25), "Cash advance", time.Time{})
		testutil.AssertNoError(t, err)

		if got := balanceOf(t, db, card.ID); !got.Equal(decimal.NewFromInt(25)) {
			t.Errorf("expected 25 owed on the card, got %s", got)
		}
	})
}

func TestGetUserTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestCashAccount(t, db, user.ID)
	second := testutil.CreateTestCashAccount(t, db, user.ID)
	food := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	expense, income := models.TransactionTypeExpense, models.TransactionTypeIncome
	coffee := testutil.CreateTestTransaction(t, db, user.ID, account.ID, &food.ID, expense, decimal.NewFromInt(5), testutil.Date(2024, 1, 2))
	coffee.Description = "Morning Coffee"
	db.Save(coffee)
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, nil, income, decimal.NewFromInt(500), testutil.Date(2024, 1, 15))
	testutil.CreateTestTransaction(t, db, user.ID, second.ID, &food.ID, expense, decimal.NewFromInt(50), testutil.Date(2024, 2, 3))
	testutil.CreateTestTransaction(t, db, other.ID, testutil.CreateTestCashAccount(t, db, other.ID).ID, nil, income, decimal.NewFromInt(1), testutil.Date(2024, 1, 2))

	jan1, jan31 := testutil.Date(2024, 1, 1), testutil.Date(2024, 1, 31)
	ten, hundred := decimal.NewFromInt(10), decimal.NewFromInt(100)
	tests := []struct {
		name   string
		filter TransactionFilter
		want   int64
	}{
		{"all", TransactionFilter{}, 3},
		{"date_window", TransactionFilter{FromDate: &jan1, ToDate: &jan31}, 2},
		{"type", TransactionFilter{Type: &expense}, 2},
		{"category", TransactionFilter{CategoryID: &food.ID}, 2},
		{"account", TransactionFilter{AccountID: &second.ID}, 1},
		{"amount_range", TransactionFilter{MinAmount: &ten, MaxAmount: &hundred}, 1},
		{"search_is_case_insensitive", TransactionFilter{Search: "coffee"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, tt.filter)
			testutil.AssertNoError(t, err)
			if result.TotalItems != tt.want {
				t.Errorf("expected %d transactions, got %d", tt.want, result.TotalItems)
			}
		})
	}

	t.Run("default_sort_is_newest_first", func(t *testing.T) {
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if !result.Data[0].Date.Equal(testutil.Date(2024, 2, 3)) {
			t.Errorf("expected the February transaction first, got %v", result.Data[0].Date)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 1 || result.TotalPages != 2 {
			t.Errorf("expected 1 item on page 2 of 2, got %d items of %d pages", len(result.Data), result.TotalPages)
		}
	})
}

func TestGetAccountTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	from := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(100))
	to := testutil.CreateTestCashAccount(t, db, user.ID)

	_, err := svc.CreateTransfer(user.ID, from.ID, to.ID, decimal.NewFromInt(10), "", time.Time{})
	testutil.AssertNoError(t, err)
	_, err = svc.CreateTransaction(user.ID, from.ID, nil, models.TransactionTypeExpense, decimal.NewFromInt(1), "", time.Time{})
	testutil.AssertNoError(t, err)

	result, err := svc.GetAccountTransactions(user.ID, to.ID, pagination.PageRequest{}, TransactionFilter{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 1 {
		t.Errorf("expected the incoming transfer only, got %d", result.TotalItems)
	}

	other := testutil.CreateTestUser(t, db)
	_, err = svc.GetAccountTransactions(other.ID, to.ID, pagination.PageRequest{}, TransactionFilter{})
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("description_category_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCashAccount(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		tx := testutil.CreateTestTransaction(t, db, user.ID, account.ID, nil, models.TransactionTypeExpense, decimal.NewFromInt(5), testutil.Date(2024, 1, 2))

		desc := "Books"
		date := testutil.Date(2024, 1, 3)
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Description: &desc, CategoryID: &cat.ID, Date: &date})
		testutil.AssertNoError(t, err)

		if updated.Description != "Books" || updated.CategoryID == nil || *updated.CategoryID != cat.ID || !updated.Date.Equal(date) {
			t.Errorf("unexpected update result: %+v", updated)
		}

		empty := ""
		updated, err = svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{CategoryID: &empty})
		testutil.AssertNoError(t, err)
		if updated.CategoryID != nil {
			t.Error("expected category to be cleared")
		}
	})

	t.Run("transfer_cannot_be_categorised", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		from := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(100))
		to := testutil.CreateTestCashAccount(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		transfer, err := svc.CreateTransfer(user.ID, from.ID, to.ID, decimal.NewFromInt(10), "", time.Time{})
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransaction(user.ID, transfer.ID, TransactionUpdateFields{CategoryID: &cat.ID})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		desc := "x"
		_, err := svc.UpdateTransaction(user.ID, missingID, TransactionUpdateFields{Description: &desc})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("reverses_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(100))

		tx, err := svc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, decimal.NewFromInt(30), "", time.Time{})
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

		if got := balanceOf(t, db, account.ID); !got.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected balance restored to 100, got %s", got)
		}
		_, err = svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("reverses_transfer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		from := testutil.CreateTestCashAccountWithBalance(t, db, user.ID, decimal.NewFromInt(100))
		to := testutil.CreateTestCashAccount(t, db, user.ID)

		transfer, err := svc.CreateTransfer(user.ID, from.ID, to.ID, decimal.NewFromInt(40), "", time.Time{})
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, transfer.ID))

		if got := balanceOf(t, db, from.ID); !got.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected source balance 100, got %s", got)
		}
		if got := balanceOf(t, db, to.ID); !got.IsZero() {
			t.Errorf("expected destination balance 0, got %s", got)
		}
	})
}

func TestGetTransactionStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestCashAccount(t, db, user.ID)
	food := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	expense, income := models.TransactionTypeExpense, models.TransactionTypeIncome
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, nil, income, decimal.NewFromInt(1000), testutil.Date(2024, 1, 1))
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, &food.ID, expense, decimal.NewFromInt(200), testutil.Date(2024, 1, 15))
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, &food.ID, expense, decimal.NewFromInt(300), testutil.Date(2024, 2, 15))

	st, err := svc.GetTransactionStats(user.ID, nil, nil)
	testutil.AssertNoError(t, err)

	if !st.Income.Equal(decimal.NewFromInt(1000)) || !st.Expense.Equal(decimal.NewFromInt(500)) || !st.Net.Equal(decimal.NewFromInt(500)) {
		t.Errorf("unexpected totals: income %s expense %s net %s", st.Income, st.Expense, st.Net)
	}
	if !st.ExpenseByCategory[food.ID].Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected food expense 500, got %s", st.ExpenseByCategory[food.ID])
	}
	if !st.NetByMonth["2024-01"].Equal(decimal.NewFromInt(800)) || !st.NetByMonth["2024-02"].Equal(decimal.NewFromInt(-300)) {
		t.Errorf("unexpected net by month: %v", st.NetByMonth)
	}
	if st.CountByType[expense] != 2 || st.CountByType[income] != 1 {
		t.Errorf("unexpected count by type: %v", st.CountByType)
	}

	from := testutil.Date(2024, 2, 1)
	st, err = svc.GetTransactionStats(user.ID, &from, nil)
	testutil.AssertNoError(t, err)
	if !st.Expense.Equal(decimal.NewFromInt(300)) || !st.Income.IsZero() {
		t.Errorf("expected only February, got income %s expense %s", st.Income, st.Expense)
	}
}
