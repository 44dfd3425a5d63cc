package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/errors"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
)

// resolveCategory loads a category the user wants to reference. Missing or
// foreign rows are not found; soft-deleted or deactivated rows are inactive.
func resolveCategory(db *gorm.DB, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	err := db.Unscoped().Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
	if err != nil {
		return nil, lookupError(err, apperrors.ErrCategoryNotFound)
	}
	if category.IsDeleted() || !category.IsActive {
		return nil, apperrors.WithMessage(apperrors.ErrReferenceInactive, "category is inactive")
	}
	return &category, nil
}

// resolveAccount is resolveCategory for accounts.
func resolveAccount(db *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	err := db.Unscoped().Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error
	if err != nil {
		return nil, lookupError(err, apperrors.ErrAccountNotFound)
	}
	if account.IsDeleted() || !account.IsActive {
		return nil, apperrors.WithMessage(apperrors.ErrReferenceInactive, "account is inactive")
	}
	return &account, nil
}

// lookupError maps gorm.ErrRecordNotFound to notFound and anything else to an
// internal error.
func lookupError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// dateRangeError reports a date-order violation with a specific message.
func dateRangeError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidDateRange, err.Error())
}

func applyDateWindow(q *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where(column+" >= ?", *from)
	}
	if to != nil {
		q = q.Where(column+" <= ?", *to)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeContains builds a LIKE pattern matching s literally anywhere in the
// column. Use with ESCAPE '\'.
func likeContains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
