package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/clock"
	apperrors "github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/errors"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/pagination"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/stats"
)

var transactionSortFields = pagination.SortFields{
	"date":       "date",
	"amount":     "amount",
	"created_at": "created_at",
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
	clock          clock.Clock
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, clk clock.Clock) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
		clock:          clk,
	}
}

// CreateTransaction records income or expense on one of the user's active accounts.
func (s *transactionService) CreateTransaction(
	userID string,
	accountID string,
	categoryID *string,
	transactionType models.TransactionType,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if accountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}

	if date.IsZero() {
		date = s.clock.Now()
	}

	account, err := resolveAccount(s.db, userID, accountID)
	if err != nil {
		return nil, err
	}
	if categoryID != nil && *categoryID == "" {
		categoryID = nil
	}
	if categoryID != nil {
		if _, err := resolveCategory(s.db, userID, *categoryID); err != nil {
			return nil, err
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   account.ID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.createTransactionWithDB(tx, account, transaction)
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// createTransactionWithDB inserts transaction and applies it to account inside tx.
func (s *transactionService) createTransactionWithDB(tx *gorm.DB, account *models.Account, transaction *models.Transaction) error {
	if err := tx.Create(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.accountService.UpdateAccountBalance(tx, account, transaction.Type, transaction.Amount)
}

// CreateTransfer moves money between two of the user's active accounts as a
// single transfer transaction.
func (s *transactionService) CreateTransfer(
	userID string,
	fromAccountID string,
	toAccountID string,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fromAccountID == toAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}
	if date.IsZero() {
		date = s.clock.Now()
	}

	from, err := resolveAccount(s.db, userID, fromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := resolveAccount(s.db, userID, toAccountID)
	if err != nil {
		return nil, err
	}
	if from.Type != models.AccountTypeCreditCard && from.Balance.LessThan(amount) {
		return nil, apperrors.ErrInsufficientBalance
	}

	transfer := &models.Transaction{
		UserID:      userID,
		AccountID:   from.ID,
		ToAccountID: &to.ID,
		Type:        models.TransactionTypeTransfer,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transfer).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.accountService.UpdateAccountBalance(tx, from, models.TransactionTypeExpense, amount); err != nil {
			return err
		}
		return s.accountService.UpdateAccountBalance(tx, to, models.TransactionTypeIncome, amount)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// GetAccountTransactions retrieves a paginated, filtered list of transactions
// touching a specific account, including incoming transfers.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	filter.AccountID = nil
	base := s.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Where("account_id = ? OR to_account_id = ?", accountID, accountID)
	return s.listTransactions(base, page, filter)
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	return s.listTransactions(base, page, filter)
}

func (s *transactionService) listTransactions(base *gorm.DB, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Sort(page, transactionSortFields, "date"), pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	q = applyDateWindow(q, "date", f.FromDate, f.ToDate)
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ? OR to_account_id = ?", *f.AccountID, *f.AccountID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q = q.Where(`LOWER(description) LIKE ? ESCAPE '\'`, likeContains(strings.ToLower(search)))
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrTransactionNotFound)
	}
	return &transaction, nil
}

// UpdateTransaction edits the descriptive fields of a transaction. An empty
// CategoryID clears the category.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Date != nil && !fields.Date.IsZero() {
		updates["date"] = *fields.Date
	}
	if fields.CategoryID != nil {
		if *fields.CategoryID == "" {
			updates["category_id"] = nil
		} else {
			if transaction.Type == models.TransactionTypeTransfer {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transfers cannot be categorised")
			}
			if _, err := resolveCategory(s.db, userID, *fields.CategoryID); err != nil {
				return nil, err
			}
			updates["category_id"] = *fields.CategoryID
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", transaction.ID).First(transaction).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return transaction, nil
}

// DeleteTransaction deletes a transaction and reverses its balance effect
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	account, err := s.accountService.GetAccountByID(userID, transaction.AccountID)
	if err != nil {
		return err
	}
	var toAccount *models.Account
	if transaction.Type == models.TransactionTypeTransfer {
		if transaction.ToAccountID == nil {
			return apperrors.ErrInvalidTransactionType
		}
		if toAccount, err = s.accountService.GetAccountByID(userID, *transaction.ToAccountID); err != nil {
			return err
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		switch transaction.Type {
		case models.TransactionTypeIncome:
			return s.accountService.UpdateAccountBalance(tx, account, models.TransactionTypeExpense, transaction.Amount)
		case models.TransactionTypeExpense:
			return s.accountService.UpdateAccountBalance(tx, account, models.TransactionTypeIncome, transaction.Amount)
		case models.TransactionTypeTransfer:
			if err := s.accountService.UpdateAccountBalance(tx, account, models.TransactionTypeIncome, transaction.Amount); err != nil {
				return err
			}
			return s.accountService.UpdateAccountBalance(tx, toAccount, models.TransactionTypeExpense, transaction.Amount)
		}
		return apperrors.ErrInvalidTransactionType
	})
}

// GetTransactionStats summarises income and expenses in the optional [from, to] window.
// Transfers only show up in the counts.
func (s *transactionService) GetTransactionStats(userID string, from, to *time.Time) (*TransactionStats, error) {
	var transactions []models.Transaction
	q := applyDateWindow(s.db.Where("user_id = ?", userID), "date", from, to)
	if err := q.Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var income, expense []models.Transaction
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			income = append(income, t)
		case models.TransactionTypeExpense:
			expense = append(expense, t)
		}
	}

	totalIncome := stats.SumAmounts(income, transactionAmount)
	totalExpense := stats.SumAmounts(expense, transactionAmount)

	return &TransactionStats{
		Income:            totalIncome,
		Expense:           totalExpense,
		Net:               totalIncome.Sub(totalExpense),
		ExpenseByCategory: stats.GroupSumBy(expense, transactionCategory, transactionAmount),
		NetByMonth:        stats.GroupSumBy(append(income, expense...), transactionMonth, signedAmount),
		CountByType:       stats.GroupCountBy(transactions, func(t models.Transaction) models.TransactionType { return t.Type }),
	}, nil
}

func transactionMonth(t models.Transaction) string {
	return t.Date.Format("2006-01")
}

func signedAmount(t models.Transaction) decimal.Decimal {
	if t.Type == models.TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
