package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email and the
// password "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCashAccount creates a cash account with zero balance.
func CreateTestCashAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestCashAccountWithBalance(t, db, userID, decimal.Zero)
}

// CreateTestCashAccountWithBalance creates a cash account with the given balance.
func CreateTestCashAccountWithBalance(t *testing.T, db *gorm.DB, userID string, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     models.AccountTypeCash,
		Balance:  balance,
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test cash account: %v", err)
	}
	return account
}

// CreateTestCreditCardAccount creates a credit card account with the given balance owed.
func CreateTestCreditCardAccount(t *testing.T, db *gorm.DB, userID string, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Credit Card %d", nextID()),
		Type:     models.AccountTypeCreditCard,
		Balance:  balance,
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test credit card account: %v", err)
	}
	return account
}

// CreateTestCategory creates an active category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Type:     categoryType,
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount
// dated on date. The account balance is not touched.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, categoryID *string, txType models.TransactionType, amount decimal.Decimal, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly budget of 100 covering [start, end].
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string, start, end time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		Amount:     decimal.NewFromInt(100),
		Period:     models.FrequencyMonthly,
		StartDate:  start,
		EndDate:    end,
		IsActive:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestRecurringPayment creates an active recurring payment of 10 due on nextDue.
func CreateTestRecurringPayment(t *testing.T, db *gorm.DB, userID, categoryID, accountID string, frequency models.Frequency, nextDue time.Time, endDate *time.Time) *models.RecurringPayment {
	t.Helper()

	payment := &models.RecurringPayment{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Payment %d", nextID()),
		Amount:      decimal.NewFromInt(10),
		Frequency:   frequency,
		CategoryID:  categoryID,
		AccountID:   accountID,
		NextDueDate: nextDue,
		EndDate:     endDate,
		IsActive:    true,
		Tags:        []string{},
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to create test recurring payment: %v", err)
	}
	return payment
}

// Deactivate flips is_active to false on a stored row. Creating with
// IsActive false does not work because gorm skips zero values that have a
// column default.
func Deactivate(t *testing.T, db *gorm.DB, model interface{}) {
	t.Helper()
	if err := db.Model(model).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate %T: %v", model, err)
	}
}
