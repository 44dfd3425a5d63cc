package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/clock"
	apperrors "github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/errors"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/events"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/logger"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/recurrence"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/stats"
)

// reminderService publishes due-soon and overdue events for active payments
// across all users. It never changes a payment.
type reminderService struct {
	db         *gorm.DB
	clock      clock.Clock
	publisher  events.Publisher
	windowDays int
}

// NewReminderService creates a new ReminderServicer looking windowDays ahead.
func NewReminderService(db *gorm.DB, clk clock.Clock, publisher events.Publisher, windowDays int) ReminderServicer {
	if windowDays < 0 {
		windowDays = 0
	}
	return &reminderService{
		db:         db,
		clock:      clk,
		publisher:  publisher,
		windowDays: windowDays,
	}
}

// Sweep runs one reminder pass. Publish failures are counted, not returned.
func (s *reminderService) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.clock.Now()
	cutoff := now.AddDate(0, 0, s.windowDays+1)

	var payments []models.RecurringPayment
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND next_due_date <= ?", true, cutoff).
		Order("next_due_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	dueSoon, overdue := stats.PartitionByDueWindow(payments, now, s.windowDays)
	result := &SweepResult{}
	log := logger.Named("reminders")

	notify := func(eventType string, p models.RecurringPayment) bool {
		event := events.Event{
			Type:       eventType,
			UserID:     p.UserID,
			ResourceID: p.ID,
			OccurredAt: now,
			Payload: map[string]interface{}{
				"name":          p.Name,
				"amount":        p.Amount.String(),
				"next_due_date": p.NextDueDate,
				"days_until":    recurrence.DaysUntil(p.NextDueDate, now),
			},
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Warnw("Failed to publish reminder", "type", eventType, "payment_id", p.ID, "error", err)
			result.Failed++
			return false
		}
		return true
	}

	for _, p := range dueSoon {
		if notify(events.PaymentDueSoon, p) {
			result.DueSoon++
		}
	}
	for _, p := range overdue {
		if notify(events.PaymentOverdue, p) {
			result.Overdue++
		}
	}

	log.Infow("Reminder sweep finished", "due_soon", result.DueSoon, "overdue", result.Overdue, "failed", result.Failed)
	return result, nil
}
