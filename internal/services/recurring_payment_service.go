package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/clock"
	apperrors "github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/errors"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/events"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/logger"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/pagination"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/recurrence"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/stats"
)

var recurringPaymentSortFields = pagination.SortFields{
	"name":          "name",
	"amount":        "amount",
	"next_due_date": "next_due_date",
	"created_at":    "created_at",
}

// recurringPaymentService handles recurring payment business logic.
type recurringPaymentService struct {
	db             *gorm.DB
	accountService AccountServicer
	clock          clock.Clock
	publisher      events.Publisher
}

// NewRecurringPaymentService creates a new RecurringPaymentServicer.
func NewRecurringPaymentService(db *gorm.DB, accountService AccountServicer, clk clock.Clock, publisher events.Publisher) RecurringPaymentServicer {
	return &recurringPaymentService{
		db:             db,
		accountService: accountService,
		clock:          clk,
		publisher:      publisher,
	}
}

// CreateRecurringPayment validates and stores a new active recurring payment.
func (s *recurringPaymentService) CreateRecurringPayment(userID string, input RecurringPaymentInput) (*models.RecurringPayment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if err := validatePaymentTerms(input.Amount, input.Frequency); err != nil {
		return nil, err
	}
	if err := recurrence.ValidateSchedule(input.NextDueDate, input.EndDate, s.clock.Now()); err != nil {
		return nil, dateRangeError(err)
	}
	if _, err := resolveCategory(s.db, userID, input.CategoryID); err != nil {
		return nil, err
	}
	if _, err := resolveAccount(s.db, userID, input.AccountID); err != nil {
		return nil, err
	}

	payment := &models.RecurringPayment{
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		Amount:      input.Amount,
		Frequency:   input.Frequency,
		CategoryID:  input.CategoryID,
		AccountID:   input.AccountID,
		NextDueDate: input.NextDueDate,
		EndDate:     input.EndDate,
		IsActive:    true,
		Tags:        normalizeTags(input.Tags),
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payment, nil
}

func validatePaymentTerms(amount decimal.Decimal, frequency models.Frequency) error {
	if amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	if !frequency.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported frequency")
	}
	return nil
}

// normalizeTags trims, lowercases, dedupes and sorts tags. Blank tags are dropped.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// GetUserRecurringPayments returns a paginated list of the user's recurring payments.
func (s *recurringPaymentService) GetUserRecurringPayments(userID string, page pagination.PageRequest, filter RecurringPaymentFilter) (*pagination.PageResponse[models.RecurringPayment], error) {
	page.Defaults()

	base := s.db.Model(&models.RecurringPayment{}).Where("user_id = ?", userID)
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Frequency != nil {
		base = base.Where("frequency = ?", *filter.Frequency)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AccountID != nil {
		base = base.Where("account_id = ?", *filter.AccountID)
	}
	if tag := strings.ToLower(strings.TrimSpace(filter.Tag)); tag != "" {
		// tags are stored as a JSON array of quoted strings
		base = base.Where(`tags LIKE ? ESCAPE '\'`, likeContains(`"`+tag+`"`))
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var payments []models.RecurringPayment
	if err := base.Scopes(pagination.Sort(page, recurringPaymentSortFields, "next_due_date"), pagination.Paginate(page)).
		Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(payments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecurringPaymentByID returns a recurring payment if it belongs to the user.
func (s *recurringPaymentService) GetRecurringPaymentByID(userID, paymentID string) (*models.RecurringPayment, error) {
	var payment models.RecurringPayment
	if err := s.db.Where("id = ? AND user_id = ?", paymentID, userID).First(&payment).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrRecurringPaymentNotFound)
	}
	return &payment, nil
}

// UpdateRecurringPayment applies a partial update. A new NextDueDate must be
// in the future; the end date is re-checked against the effective due date
// whenever either of them changes.
func (s *recurringPaymentService) UpdateRecurringPayment(userID, paymentID string, fields RecurringPaymentUpdateFields) (*models.RecurringPayment, error) {
	payment, err := s.GetRecurringPaymentByID(userID, paymentID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot be empty")
		}
		updates["name"] = name
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}

	amount, frequency := payment.Amount, payment.Frequency
	if fields.Amount != nil {
		amount = *fields.Amount
		updates["amount"] = amount
	}
	if fields.Frequency != nil {
		frequency = *fields.Frequency
		updates["frequency"] = frequency
	}
	if err := validatePaymentTerms(amount, frequency); err != nil {
		return nil, err
	}

	nextDue, endDate := payment.NextDueDate, payment.EndDate
	dueChanged := fields.NextDueDate != nil && !fields.NextDueDate.Equal(payment.NextDueDate)
	endChanged := fields.ClearEndDate || fields.EndDate != nil
	if dueChanged {
		nextDue = *fields.NextDueDate
		updates["next_due_date"] = nextDue
	}
	switch {
	case fields.ClearEndDate:
		endDate = nil
		updates["end_date"] = nil
	case fields.EndDate != nil:
		endDate = fields.EndDate
		updates["end_date"] = *fields.EndDate
	}
	switch {
	case dueChanged:
		if err := recurrence.ValidateSchedule(nextDue, endDate, s.clock.Now()); err != nil {
			return nil, dateRangeError(err)
		}
	case endChanged:
		if err := recurrence.ValidateEndDate(nextDue, endDate); err != nil {
			return nil, dateRangeError(err)
		}
	}

	if fields.CategoryID != nil && *fields.CategoryID != payment.CategoryID {
		if _, err := resolveCategory(s.db, userID, *fields.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *fields.CategoryID
	}
	if fields.AccountID != nil && *fields.AccountID != payment.AccountID {
		if _, err := resolveAccount(s.db, userID, *fields.AccountID); err != nil {
			return nil, err
		}
		updates["account_id"] = *fields.AccountID
	}
	if fields.IsActive != nil {
		if *fields.IsActive && !payment.IsActive {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "an ended recurring payment cannot be reactivated")
		}
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(payment).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if fields.Tags != nil {
		// tags go through a struct update so the json serializer applies
		payment.Tags = normalizeTags(*fields.Tags)
		if err := s.db.Model(payment).Select("tags").Updates(payment).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetRecurringPaymentByID(userID, paymentID)
}

// DeleteRecurringPayment soft-deletes a recurring payment.
func (s *recurringPaymentService) DeleteRecurringPayment(userID, paymentID string) error {
	payment, err := s.GetRecurringPaymentByID(userID, paymentID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(payment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RolloverRecurringPayment settles the current period and moves the payment
// one period forward. Ended or deleted payments are reported as not found.
// With record set, an expense for the settled period is booked on the
// payment's account in the same database transaction. A zero-amount period
// books nothing since transactions must be positive.
func (s *recurringPaymentService) RolloverRecurringPayment(ctx context.Context, userID, paymentID string, record bool) (*RolloverResult, error) {
	payment, err := s.GetRecurringPaymentByID(userID, paymentID)
	if err != nil {
		return nil, err
	}

	next, err := recurrence.Rollover(*payment)
	if err != nil {
		if errors.Is(err, recurrence.ErrPaymentNotActive) {
			return nil, apperrors.ErrRecurringPaymentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record = record && payment.Amount.IsPositive()
	var account *models.Account
	if record {
		if account, err = resolveAccount(s.db, userID, payment.AccountID); err != nil {
			return nil, err
		}
	}

	result := &RolloverResult{Payment: &next, Ended: !next.IsActive}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RecurringPayment{}).Where("id = ?", payment.ID).Updates(map[string]interface{}{
			"next_due_date": next.NextDueDate,
			"is_active":     next.IsActive,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if !record {
			return nil
		}
		categoryID := payment.CategoryID
		transaction := &models.Transaction{
			UserID:             userID,
			AccountID:          account.ID,
			CategoryID:         &categoryID,
			Type:               models.TransactionTypeExpense,
			Amount:             payment.Amount,
			Description:        payment.Name,
			Date:               payment.NextDueDate,
			RecurringPaymentID: &payment.ID,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result.Transaction = transaction
		return s.accountService.UpdateAccountBalance(tx, account, transaction.Type, transaction.Amount)
	})
	if err != nil {
		return nil, err
	}

	eventType := events.PaymentRolledOver
	if result.Ended {
		eventType = events.PaymentEnded
	}
	s.publish(ctx, eventType, next, map[string]interface{}{
		"previous_due_date": payment.NextDueDate,
		"next_due_date":     next.NextDueDate,
		"amount":            next.Amount.String(),
		"recorded":          record,
	})

	return result, nil
}

func (s *recurringPaymentService) publish(ctx context.Context, eventType string, p models.RecurringPayment, payload map[string]interface{}) {
	event := events.Event{
		Type:       eventType,
		UserID:     p.UserID,
		ResourceID: p.ID,
		OccurredAt: s.clock.Now(),
		Payload:    payload,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Get().Warnw("Failed to publish event", "type", eventType, "payment_id", p.ID, "error", err)
	}
}

// activePayments loads the user's active payments ordered by due date.
func (s *recurringPaymentService) activePayments(userID string) ([]models.RecurringPayment, error) {
	var payments []models.RecurringPayment
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("next_due_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payments, nil
}

// GetUpcomingPayments returns active payments due within the next days.
func (s *recurringPaymentService) GetUpcomingPayments(userID string, days int) ([]models.RecurringPayment, error) {
	if days < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "days cannot be negative")
	}
	payments, err := s.activePayments(userID)
	if err != nil {
		return nil, err
	}
	dueSoon, _ := stats.PartitionByDueWindow(payments, s.clock.Now(), days)
	return dueSoon, nil
}

// GetOverduePayments returns active payments whose due date has passed.
func (s *recurringPaymentService) GetOverduePayments(userID string) ([]models.RecurringPayment, error) {
	payments, err := s.activePayments(userID)
	if err != nil {
		return nil, err
	}
	_, overdue := stats.PartitionByDueWindow(payments, s.clock.Now(), 0)
	return overdue, nil
}

// GetPaymentStats summarises the user's recurring payments. Monthly figures
// only include active payments.
func (s *recurringPaymentService) GetPaymentStats(userID string, days int) (*PaymentStats, error) {
	if days < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "days cannot be negative")
	}

	var payments []models.RecurringPayment
	if err := s.db.Where("user_id = ?", userID).Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	active := make([]models.RecurringPayment, 0, len(payments))
	for _, p := range payments {
		if p.IsActive {
			active = append(active, p)
		}
	}
	dueSoon, overdue := stats.PartitionByDueWindow(active, s.clock.Now(), days)

	return &PaymentStats{
		Total:            len(payments),
		Active:           len(active),
		Ended:            len(payments) - len(active),
		MonthlyTotal:     stats.MonthlyTotal(active),
		CountByFrequency: stats.GroupCountBy(payments, func(p models.RecurringPayment) models.Frequency { return p.Frequency }),
		MonthlyByCategory: stats.GroupSumBy(active,
			func(p models.RecurringPayment) string { return p.CategoryID },
			func(p models.RecurringPayment) decimal.Decimal { return stats.ToMonthlyEquivalent(p.Amount, p.Frequency) }),
		DueSoon: len(dueSoon),
		Overdue: len(overdue),
	}, nil
}
