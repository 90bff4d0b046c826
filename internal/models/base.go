package models

import (
	"time"

	"repairdesk/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all catalog tables. Catalog rows are hard
// deleted, so there is no DeletedAt column.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// Price is a merchant-entered price kept as opaque text ("49.99", "€ 89,00",
// "from 120"). It is never parsed or used in arithmetic.
type Price string
