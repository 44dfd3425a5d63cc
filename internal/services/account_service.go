package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/clock"
	apperrors "github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/errors"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/pagination"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/stats"
)

var accountSortFields = pagination.SortFields{
	"name":       "name",
	"balance":    "balance",
	"type":       "type",
	"created_at": "created_at",
}

// accountService handles account-related business logic.
type accountService struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, clk clock.Clock) AccountServicer {
	return &accountService{db: db, clock: clk}
}

// CreateAccount creates a new account for a user. A positive opening balance
// is recorded as an "Initial balance" income transaction.
func (s *accountService) CreateAccount(
	userID string,
	name string,
	accountType models.AccountType,
	description string,
	currency string,
	initialBalance decimal.Decimal,
) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if !accountType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported account type")
	}
	if initialBalance.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance cannot be negative")
	}

	if currency == "" {
		currency = "USD" // Default currency
	}

	account := &models.Account{
		UserID:      userID,
		Name:        name,
		Type:        accountType,
		Description: description,
		Balance:     initialBalance,
		Currency:    strings.ToUpper(currency),
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if initialBalance.IsPositive() {
			transaction := &models.Transaction{
				UserID:      userID,
				AccountID:   account.ID,
				Type:        models.TransactionTypeIncome,
				Amount:      initialBalance,
				Description: "Initial balance",
				Date:        s.clock.Now(),
			}
			if err := tx.Create(transaction).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest, filter AccountFilter) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if !filter.IncludeInactive {
		base = base.Where("is_active = ?", true)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Sort(page, accountSortFields, "created_at"), pagination.Paginate(page)).
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific user. Deactivated
// accounts are returned so they can be reactivated.
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrAccountNotFound)
	}
	return &account, nil
}

// UpdateAccount applies the provided fields. Balance only moves through transactions.
func (s *accountService) UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && strings.TrimSpace(*fields.Name) != "" {
		updates["name"] = strings.TrimSpace(*fields.Name)
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Currency != nil && *fields.Currency != "" {
		updates["currency"] = strings.ToUpper(*fields.Currency)
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reload to get fresh data
		if err := s.db.Where("id = ?", account.ID).First(account).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteAccount soft-deletes an account. Its transactions stay for history.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBalanceSummary totals the balances of the user's active accounts.
// Credit card balances are amounts owed and count negatively.
func (s *accountService) GetBalanceSummary(userID string) (*BalanceSummary, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &BalanceSummary{
		Total:        stats.SumAmounts(accounts, netWorth),
		ByType:       stats.GroupSumBy(accounts, func(a models.Account) models.AccountType { return a.Type }, netWorth),
		ByCurrency:   stats.GroupSumBy(accounts, func(a models.Account) string { return a.Currency }, netWorth),
		AccountCount: len(accounts),
	}, nil
}

func netWorth(a models.Account) decimal.Decimal {
	if a.Type == models.AccountTypeCreditCard {
		return a.Balance.Neg()
	}
	return a.Balance
}

// UpdateAccountBalance updates the balance of an account based on transaction
func (s *accountService) UpdateAccountBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount decimal.Decimal) error {
	// Credit cards: positive balance = amount owed (expense increases, income/payment decreases)
	// All others: income adds, expense subtracts
	switch transactionType {
	case models.TransactionTypeIncome:
		if account.Type == models.AccountTypeCreditCard {
			account.Balance = account.Balance.Sub(amount)
		} else {
			account.Balance = account.Balance.Add(amount)
		}
	case models.TransactionTypeExpense:
		if account.Type == models.AccountTypeCreditCard {
			account.Balance = account.Balance.Add(amount)
		} else {
			account.Balance = account.Balance.Sub(amount)
		}
	default:
		return apperrors.ErrInvalidTransactionType
	}

	if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
