package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/errors"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/overlap"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/pagination"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/stats"
)

var budgetSortFields = pagination.SortFields{
	"name":       "name",
	"amount":     "amount",
	"start_date": "start_date",
	"end_date":   "end_date",
	"created_at": "created_at",
}

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget for a category. All checks run before
// anything is written.
func (s *budgetService) CreateBudget(userID string, input BudgetInput) (*models.Budget, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if input.Amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	if !input.Period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported budget period")
	}

	if _, err := resolveCategory(s.db, userID, input.CategoryID); err != nil {
		return nil, err
	}
	candidate := overlap.Candidate{
		UserID:     userID,
		CategoryID: input.CategoryID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}
	if err := s.checkWindow(candidate); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Name:        name,
		Description: input.Description,
		Amount:      input.Amount,
		Period:      input.Period,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// checkWindow enforces start < end and the no-overlap rule for c.
func (s *budgetService) checkWindow(c overlap.Candidate) error {
	if err := overlap.ValidateRange(c.StartDate, c.EndDate); err != nil {
		return dateRangeError(err)
	}

	var existing []models.Budget
	if err := s.db.Where("user_id = ? AND category_id = ?", c.UserID, c.CategoryID).Find(&existing).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if overlap.HasOverlap(c, existing) {
		return apperrors.ErrBudgetOverlap
	}
	return nil
}

// GetUserBudgets returns a paginated list of budgets for the user with optional filters.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Period != nil {
		base = base.Where("period = ?", *filter.Period)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ActiveOn != nil {
		base = base.Where("start_date <= ? AND end_date >= ?", *filter.ActiveOn, *filter.ActiveOn)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").
		Scopes(pagination.Sort(page, budgetSortFields, "start_date"), pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrBudgetNotFound)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields. The resulting window is
// re-validated against every other budget of the same category.
func (s *budgetService) UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	candidate := overlap.Candidate{
		UserID:     userID,
		CategoryID: budget.CategoryID,
		StartDate:  budget.StartDate,
		EndDate:    budget.EndDate,
		ExcludeID:  budget.ID,
	}
	updates := make(map[string]interface{})

	if fields.CategoryID != nil && *fields.CategoryID != budget.CategoryID {
		if _, err := resolveCategory(s.db, userID, *fields.CategoryID); err != nil {
			return nil, err
		}
		candidate.CategoryID = *fields.CategoryID
		updates["category_id"] = *fields.CategoryID
	}
	if fields.StartDate != nil {
		candidate.StartDate = *fields.StartDate
		updates["start_date"] = *fields.StartDate
	}
	if fields.EndDate != nil {
		candidate.EndDate = *fields.EndDate
		updates["end_date"] = *fields.EndDate
	}
	if err := s.checkWindow(candidate); err != nil {
		return nil, err
	}

	if fields.Name != nil && strings.TrimSpace(*fields.Name) != "" {
		updates["name"] = strings.TrimSpace(*fields.Name)
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Amount != nil {
		if fields.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.Period != nil {
		if !fields.Period.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported budget period")
		}
		updates["period"] = *fields.Period
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress sums the category's expense transactions inside the
// budget's [StartDate, EndDate] window. EndDate covers its whole day.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	err = s.db.Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date < ?",
		userID, budget.CategoryID, models.TransactionTypeExpense, budget.StartDate, budget.EndDate.AddDate(0, 0, 1)).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent := stats.SumAmounts(transactions, transactionAmount)
	var percentage float64
	if budget.Amount.IsPositive() {
		percentage, _ = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	return &BudgetProgress{
		BudgetID:   budget.ID,
		Budgeted:   budget.Amount,
		Spent:      spent,
		Remaining:  budget.Amount.Sub(spent),
		Percentage: percentage,
	}, nil
}

// GetBudgetStats summarises the user's budgets. The monthly equivalent only
// covers active budgets.
func (s *budgetService) GetBudgetStats(userID string) (*BudgetStats, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var active []models.Budget
	for _, b := range budgets {
		if b.IsActive {
			active = append(active, b)
		}
	}
	amount := func(b models.Budget) decimal.Decimal { return b.Amount }

	return &BudgetStats{
		Total:              len(budgets),
		Active:             len(active),
		Inactive:           len(budgets) - len(active),
		TotalBudgeted:      stats.SumAmounts(budgets, amount),
		CountByPeriod:      stats.GroupCountBy(budgets, func(b models.Budget) models.Frequency { return b.Period }),
		BudgetedByCategory: stats.GroupSumBy(budgets, func(b models.Budget) string { return b.CategoryID }, amount),
		MonthlyEquivalentActive: stats.SumAmounts(active, func(b models.Budget) decimal.Decimal {
			return stats.ToMonthlyEquivalent(b.Amount, b.Period)
		}),
	}, nil
}
