package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	UpdateProfile(userID string, firstName, lastName *string) (*models.User, error)
}

// AccountFilter holds optional filter parameters for listing accounts.
type AccountFilter struct {
	Type            *models.AccountType
	IncludeInactive bool
}

// AccountUpdateFields holds the optional fields of an account update.
type AccountUpdateFields struct {
	Name        *string
	Description *string
	Currency    *string
	IsActive    *bool
}

// BalanceSummary aggregates balances across a user's active accounts.
type BalanceSummary struct {
	Total        decimal.Decimal                        `json:"total"`
	ByType       map[models.AccountType]decimal.Decimal `json:"by_type"`
	ByCurrency   map[string]decimal.Decimal             `json:"by_currency"`
	AccountCount int                                    `json:"account_count"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, description, currency string, initialBalance decimal.Decimal) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest, filter AccountFilter) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	GetBalanceSummary(userID string) (*BalanceSummary, error)
	UpdateAccountBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount decimal.Decimal) error
}

// CategoryFilter holds optional filter parameters for listing categories.
type CategoryFilter struct {
	Type     *models.CategoryType
	IsActive *bool
}

// CategoryUpdateFields holds the optional fields of a category update.
type CategoryUpdateFields struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
	ParentID    *string
	IsActive    *bool
}

// CategoryStats summarises a user's categories and the money that moved through them.
type CategoryStats struct {
	Total             int                         `json:"total"`
	Active            int                         `json:"active"`
	Inactive          int                         `json:"inactive"`
	CountByType       map[models.CategoryType]int `json:"count_by_type"`
	ExpenseByCategory map[string]decimal.Decimal  `json:"expense_by_category"`
	IncomeByCategory  map[string]decimal.Decimal  `json:"income_by_category"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, description, icon, color string, parentID *string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest, filter CategoryFilter) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	GetCategoryStats(userID string, from, to *time.Time) (*CategoryStats, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	AccountID  *string
	Search     string
}

// TransactionUpdateFields holds the editable fields of a transaction. Amount
// and accounts are fixed once the balance has been applied.
type TransactionUpdateFields struct {
	Description *string
	CategoryID  *string
	Date        *time.Time
}

// TransactionStats summarises income and expenses over a window.
type TransactionStats struct {
	Income            decimal.Decimal                `json:"income"`
	Expense           decimal.Decimal                `json:"expense"`
	Net               decimal.Decimal                `json:"net"`
	ExpenseByCategory map[string]decimal.Decimal     `json:"expense_by_category"`
	NetByMonth        map[string]decimal.Decimal     `json:"net_by_month"`
	CountByType       map[models.TransactionType]int `json:"count_by_type"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, accountID string, categoryID *string, transactionType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	CreateTransfer(userID, fromAccountID, toAccountID string, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetTransactionStats(userID string, from, to *time.Time) (*TransactionStats, error)
}

// BudgetInput is a new budget.
type BudgetInput struct {
	CategoryID  string
	Name        string
	Description string
	Amount      decimal.Decimal
	Period      models.Frequency
	StartDate   time.Time
	EndDate     time.Time
}

// BudgetUpdateFields holds the optional fields of a budget update.
type BudgetUpdateFields struct {
	CategoryID  *string
	Name        *string
	Description *string
	Amount      *decimal.Decimal
	Period      *models.Frequency
	StartDate   *time.Time
	EndDate     *time.Time
	IsActive    *bool
}

// BudgetFilter holds optional filter parameters for listing budgets.
// ActiveOn keeps budgets whose window contains that instant.
type BudgetFilter struct {
	IsActive   *bool
	Period     *models.Frequency
	CategoryID *string
	ActiveOn   *time.Time
}

// BudgetProgress contains spending vs budget data over a budget's window.
type BudgetProgress struct {
	BudgetID   string          `json:"budget_id"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

// BudgetStats summarises a user's budgets.
type BudgetStats struct {
	Total                   int                        `json:"total"`
	Active                  int                        `json:"active"`
	Inactive                int                        `json:"inactive"`
	TotalBudgeted           decimal.Decimal            `json:"total_budgeted"`
	CountByPeriod           map[models.Frequency]int   `json:"count_by_period"`
	BudgetedByCategory      map[string]decimal.Decimal `json:"budgeted_by_category"`
	MonthlyEquivalentActive decimal.Decimal            `json:"monthly_equivalent_active"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, input BudgetInput) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
	GetBudgetStats(userID string) (*BudgetStats, error)
}

// RecurringPaymentInput is a new recurring payment.
type RecurringPaymentInput struct {
	Name        string
	Description string
	Amount      decimal.Decimal
	Frequency   models.Frequency
	CategoryID  string
	AccountID   string
	NextDueDate time.Time
	EndDate     *time.Time
	Tags        []string
}

// RecurringPaymentUpdateFields holds the optional fields of a recurring
// payment update. ClearEndDate removes an existing end date.
type RecurringPaymentUpdateFields struct {
	Name         *string
	Description  *string
	Amount       *decimal.Decimal
	Frequency    *models.Frequency
	CategoryID   *string
	AccountID    *string
	NextDueDate  *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Tags         *[]string
	IsActive     *bool
}

// RecurringPaymentFilter holds optional filter parameters for listing recurring payments.
type RecurringPaymentFilter struct {
	IsActive   *bool
	Frequency  *models.Frequency
	CategoryID *string
	AccountID  *string
	Tag        string
}

// RolloverResult is the outcome of settling one period of a recurring payment.
type RolloverResult struct {
	Payment     *models.RecurringPayment `json:"payment"`
	Transaction *models.Transaction      `json:"transaction,omitempty"`
	Ended       bool                     `json:"ended"`
}

// PaymentStats summarises a user's recurring payments.
type PaymentStats struct {
	Total             int                        `json:"total"`
	Active            int                        `json:"active"`
	Ended             int                        `json:"ended"`
	MonthlyTotal      decimal.Decimal            `json:"monthly_total"`
	CountByFrequency  map[models.Frequency]int   `json:"count_by_frequency"`
	MonthlyByCategory map[string]decimal.Decimal `json:"monthly_by_category"`
	DueSoon           int                        `json:"due_soon"`
	Overdue           int                        `json:"overdue"`
}

// RecurringPaymentServicer defines the contract for recurring payment business logic.
type RecurringPaymentServicer interface {
	CreateRecurringPayment(userID string, input RecurringPaymentInput) (*models.RecurringPayment, error)
	GetUserRecurringPayments(userID string, page pagination.PageRequest, filter RecurringPaymentFilter) (*pagination.PageResponse[models.RecurringPayment], error)
	GetRecurringPaymentByID(userID, paymentID string) (*models.RecurringPayment, error)
	UpdateRecurringPayment(userID, paymentID string, fields RecurringPaymentUpdateFields) (*models.RecurringPayment, error)
	DeleteRecurringPayment(userID, paymentID string) error
	RolloverRecurringPayment(ctx context.Context, userID, paymentID string, record bool) (*RolloverResult, error)
	GetUpcomingPayments(userID string, days int) ([]models.RecurringPayment, error)
	GetOverduePayments(userID string) ([]models.RecurringPayment, error)
	GetPaymentStats(userID string, days int) (*PaymentStats, error)
}

// SweepResult reports what a reminder sweep published.
type SweepResult struct {
	DueSoon int `json:"due_soon"`
	Overdue int `json:"overdue"`
	Failed  int `json:"failed"`
}

// ReminderServicer defines the contract for the due-date reminder sweep.
type ReminderServicer interface {
	Sweep(ctx context.Context) (*SweepResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
