package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/services"
)

// ReminderHandler exposes the reminder sweep to internal callers.
type ReminderHandler struct {
	reminderService services.ReminderServicer
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService services.ReminderServicer) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// Sweep runs one reminder sweep on demand.
// @Summary     Run the reminder sweep
// @Description Publish due-soon and overdue events for every active recurring payment in the reminder window
// @Tags        internal
// @Produce     json
// @Param       X-API-Key header string true "Internal API key"
// @Success     200 {object} services.SweepResult "Sweep counts"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/reminders/sweep [post]
func (h *ReminderHandler) Sweep(c *gin.Context) {
	result, err := h.reminderService.Sweep(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
