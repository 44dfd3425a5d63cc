package models

import (
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. DeletedAt is the soft-delete
// marker: gorm excludes rows with a non-null deleted_at from default queries.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty" swaggertype:"string"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// IsDeleted reports whether the record has been soft-deleted.
func (b Base) IsDeleted() bool {
	return b.DeletedAt.Valid
}
