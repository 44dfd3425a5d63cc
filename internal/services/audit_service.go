package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/logger"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
)

// Audit actions recorded by the handlers.
const (
	AuditActionRegister                 = "REGISTER"
	AuditActionLogin                    = "LOGIN"
	AuditActionUpdateProfile            = "UPDATE_PROFILE"
	AuditActionCreateAccount            = "CREATE_ACCOUNT"
	AuditActionUpdateAccount            = "UPDATE_ACCOUNT"
	AuditActionDeleteAccount            = "DELETE_ACCOUNT"
	AuditActionCreateCategory           = "CREATE_CATEGORY"
	AuditActionUpdateCategory           = "UPDATE_CATEGORY"
	AuditActionDeleteCategory           = "DELETE_CATEGORY"
	AuditActionCreateTransaction        = "CREATE_TRANSACTION"
	AuditActionCreateTransfer           = "CREATE_TRANSFER"
	AuditActionUpdateTransaction        = "UPDATE_TRANSACTION"
	AuditActionDeleteTransaction        = "DELETE_TRANSACTION"
	AuditActionCreateBudget             = "CREATE_BUDGET"
	AuditActionUpdateBudget             = "UPDATE_BUDGET"
	AuditActionDeleteBudget             = "DELETE_BUDGET"
	AuditActionCreateRecurringPayment   = "CREATE_RECURRING_PAYMENT"
	AuditActionUpdateRecurringPayment   = "UPDATE_RECURRING_PAYMENT"
	AuditActionDeleteRecurringPayment   = "DELETE_RECURRING_PAYMENT"
	AuditActionRolloverRecurringPayment = "ROLLOVER_RECURRING_PAYMENT"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
