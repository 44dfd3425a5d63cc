package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/errors"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/services"
)

const defaultUpcomingDays = 7

// RecurringPaymentHandler handles recurring payment requests.
type RecurringPaymentHandler struct {
	paymentService services.RecurringPaymentServicer
	auditService   services.AuditServicer
}

// NewRecurringPaymentHandler creates a new RecurringPaymentHandler.
func NewRecurringPaymentHandler(paymentService services.RecurringPaymentServicer, auditService services.AuditServicer) *RecurringPaymentHandler {
	return &RecurringPaymentHandler{paymentService: paymentService, auditService: auditService}
}

// CreateRecurringPaymentRequest represents the request payload for creating a recurring payment.
type CreateRecurringPaymentRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=100"`
	Description string           `json:"description" binding:"max=500"`
	Amount      decimal.Decimal  `json:"amount" binding:"gte=0" swaggertype:"string"`
	Frequency   models.Frequency `json:"frequency" binding:"required,frequency"`
	CategoryID  string           `json:"category_id" binding:"required,uuid"`
	AccountID   string           `json:"account_id" binding:"required,uuid"`
	NextDueDate *Date            `json:"next_due_date" binding:"required" swaggertype:"string"`
	EndDate     *Date            `json:"end_date" swaggertype:"string"`
	Tags        []string         `json:"tags" binding:"max=20,dive,max=50"`
}

// UpdateRecurringPaymentRequest represents the request payload for updating a
// recurring payment. clear_end_date removes the end date.
type UpdateRecurringPaymentRequest struct {
	Name         *string           `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string           `json:"description" binding:"omitempty,max=500"`
	Amount       *decimal.Decimal  `json:"amount" binding:"omitempty,gte=0" swaggertype:"string"`
	Frequency    *models.Frequency `json:"frequency" binding:"omitempty,frequency"`
	CategoryID   *string           `json:"category_id" binding:"omitempty,uuid"`
	AccountID    *string           `json:"account_id" binding:"omitempty,uuid"`
	NextDueDate  *Date             `json:"next_due_date" swaggertype:"string"`
	EndDate      *Date             `json:"end_date" swaggertype:"string"`
	ClearEndDate bool              `json:"clear_end_date"`
	Tags         *[]string         `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	IsActive     *bool             `json:"is_active"`
}

// CreateRecurringPayment handles the creation of a recurring payment.
// @Summary     Create a recurring payment
// @Description Create a recurring payment. The first due date must be in the future and before the end date.
// @Tags        recurring-payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecurringPaymentRequest true "Recurring payment details"
// @Success     201 {object} models.RecurringPayment "Recurring payment created"
// @Failure     400 {object} ErrorResponse "Invalid input, invalid date range or inactive reference"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category or account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-payments [post]
func (h *RecurringPaymentHandler) CreateRecurringPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecurringPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.paymentService.CreateRecurringPayment(userID, services.RecurringPaymentInput{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		NextDueDate: req.NextDueDate.Time,
		EndDate:     req.EndDate.timePtr(),
		Tags:        req.Tags,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreateRecurringPayment, "recurring_payment", payment.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "amount": req.Amount.String(), "frequency": req.Frequency})

	c.JSON(http.StatusCreated, gin.H{"recurring_payment": payment})
}

// GetRecurringPayments handles listing recurring payments.
// @Summary     List recurring payments
// @Description Get a paginated list of recurring payments
// @Tags        recurring-payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_active   query bool   false "Filter by active status"
// @Param       frequency   query string false "Filter by frequency (weekly/monthly/quarterly/yearly)"
// @Param       category_id query string false "Filter by category ID"
// @Param       account_id  query string false "Filter by account ID"
// @Param       tag         query string false "Filter by tag"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       sort_by     query string false "name, amount, next_due_date or created_at"
// @Param       sort_order  query string false "asc or desc"
// @Success     200 {object} pagination.PageResponse[models.RecurringPayment] "Paginated recurring payments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-payments [get]
func (h *RecurringPaymentHandler) GetRecurringPayments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var filter services.RecurringPaymentFilter
	if filter.IsActive, err = queryBool(c, "is_active"); err != nil {
		respondWithError(c, err)
		return
	}
	if v := c.Query("frequency"); v != "" {
		f := models.Frequency(v)
		if !f.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "frequency must be weekly, monthly, quarterly or yearly"))
			return
		}
		filter.Frequency = &f
	}
	if filter.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.AccountID, err = queryUUID(c, "account_id"); err != nil {
		respondWithError(c, err)
		return
	}
	filter.Tag = c.Query("tag")

	result, err := h.paymentService.GetUserRecurringPayments(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUpcomingPayments lists active payments due within the next days.
// @Summary     Upcoming recurring payments
// @Description Active payments due between now and now plus the given number of days
// @Tags        recurring-payments
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Window in days (default 7)"
// @Success     200 {array} models.RecurringPayment "Upcoming payments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-payments/upcoming [get]
func (h *RecurringPaymentHandler) GetUpcomingPayments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days, err := queryInt(c, "days", defaultUpcomingDays)
	if err != nil {
		respondWithError(c, err)
		return
	}

	payments, err := h.paymentService.GetUpcomingPayments(userID, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_payments": payments})
}

// GetOverduePayments lists active payments whose due date has passed.
// @Summary     Overdue recurring payments
// @Description Active payments whose next due date is before now
// @Tags        recurring-payments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.RecurringPayment "Overdue payments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-payments/overdue [get]
func (h *RecurringPaymentHandler) GetOverduePayments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	payments, err := h.paymentService.GetOverduePayments(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_payments": payments})
}

// GetPaymentStats summarises recurring payments.
// @Summary     Recurring payment statistics
// @Description Active and ended counts, monthly-equivalent totals, and due-soon and overdue counts
// @Tags        recurring-payments
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Due-soon window in days (default 7)"
// @Success     200 {object} services.PaymentStats "Recurring payment statistics"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-payments/stats [get]
func (h *RecurringPaymentHandler) GetPaymentStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days, err := queryInt(c, "days", defaultUpcomingDays)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.paymentService.GetPaymentStats(userID, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetRecurringPayment handles retrieving a single recurring payment.
// @Summary     Get recurring payment by ID
// @Description Get a specific recurring payment by ID
// @Tags        recurring-payments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recurring payment ID"
// @Success     200 {object} models.RecurringPayment "Recurring payment"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-payments/{id} [get]
func (h *RecurringPaymentHandler) GetRecurringPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	payment, err := h.paymentService.GetRecurringPaymentByID(userID, paymentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_payment": payment})
}

// UpdateRecurringPayment handles updating a recurring payment.
// @Summary     Update a recurring payment
// @Description Update a recurring payment. A changed next due date must be in the future and before the end date.
// @Tags        recurring-payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                        true "Recurring payment ID"
// @Param       request body UpdateRecurringPaymentRequest true "Fields to update"
// @Success     200 {object} models.RecurringPayment "Updated recurring payment"
// @Failure     400 {object} ErrorResponse "Invalid input, invalid date range or inactive reference"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-payments/{id} [put]
func (h *RecurringPaymentHandler) UpdateRecurringPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecurringPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.ClearEndDate && req.EndDate != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date and clear_end_date are mutually exclusive"))
		return
	}

	payment, err := h.paymentService.UpdateRecurringPayment(userID, paymentID, services.RecurringPaymentUpdateFields{
		Name:         req.Name,
		Description:  req.Description,
		Amount:       req.Amount,
		Frequency:    req.Frequency,
		CategoryID:   req.CategoryID,
		AccountID:    req.AccountID,
		NextDueDate:  req.NextDueDate.timePtr(),
		EndDate:      req.EndDate.timePtr(),
		ClearEndDate: req.ClearEndDate,
		Tags:         req.Tags,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdateRecurringPayment, "recurring_payment", paymentID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"recurring_payment": payment})
}

// DeleteRecurringPayment handles deleting a recurring payment.
// @Summary     Delete a recurring payment
// @Description Soft-delete a recurring payment
// @Tags        recurring-payments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recurring payment ID"
// @Success     200 {object} MessageResponse "Recurring payment deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-payments/{id} [delete]
func (h *RecurringPaymentHandler) DeleteRecurringPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.paymentService.DeleteRecurringPayment(userID, paymentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDeleteRecurringPayment, "recurring_payment", paymentID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Recurring payment deleted successfully"})
}

// RolloverRecurringPayment settles the current period of a payment.
// @Summary     Roll over a recurring payment
// @Description Advance the next due date by one period. With record=true an expense transaction is booked on the payment's account. A payment whose next due date passes its end date becomes ended.
// @Tags        recurring-payments
// @Produce     json
// @Security    BearerAuth
// @Param       id     path  string true  "Recurring payment ID"
// @Param       record query bool   false "Record an expense transaction for the settled period"
// @Success     200 {object} services.RolloverResult "Rollover result"
// @Failure     400 {object} ErrorResponse "Invalid input or inactive account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring payment not found or ended"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-payments/{id}/rollover [post]
func (h *RecurringPaymentHandler) RolloverRecurringPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := queryBool(c, "record")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.paymentService.RolloverRecurringPayment(c.Request.Context(), userID, paymentID, record != nil && *record)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionRolloverRecurringPayment, "recurring_payment", paymentID, c.ClientIP(),
		map[string]interface{}{"next_due_date": result.Payment.NextDueDate, "ended": result.Ended, "recorded": result.Transaction != nil})

	c.JSON(http.StatusOK, result)
}
