package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/services"
)

type mockReminderService struct {
	sweepFn func(ctx context.Context) (*services.SweepResult, error)
}

func (m *mockReminderService) Sweep(ctx context.Context) (*services.SweepResult, error) {
	if m.sweepFn != nil {
		return m.sweepFn(ctx)
	}
	return &services.SweepResult{}, nil
}

var _ services.ReminderServicer = (*mockReminderService)(nil)

func TestReminderHandler_Sweep(t *testing.T) {
	t.Run("returns sweep counts", func(t *testing.T) {
		handler := NewReminderHandler(&mockReminderService{
			sweepFn: func(context.Context) (*services.SweepResult, error) {
				return &services.SweepResult{DueSoon: 3, Overdue: 1}, nil
			},
		})
		r := gin.New()
		r.POST("/internal/reminders/sweep", handler.Sweep)

		rec := doRequest(r, "POST", "/internal/reminders/sweep", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)["result"].(map[string]interface{})
		if result["due_soon"].(float64) != 3 || result["overdue"].(float64) != 1 {
			t.Errorf("unexpected result %v", result)
		}
	})

	t.Run("returns 500 when the sweep fails", func(t *testing.T) {
		handler := NewReminderHandler(&mockReminderService{
			sweepFn: func(context.Context) (*services.SweepResult, error) {
				return nil, errors.New("database unavailable")
			},
		})
		r := gin.New()
		r.POST("/internal/reminders/sweep", handler.Sweep)

		rec := doRequest(r, "POST", "/internal/reminders/sweep", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}
