package models

import (
	"time"

	"repairdesk/internal/uuid"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission is a customer repair request. Rows are write-once: the
// application only ever inserts them.
type Submission struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	// Contact
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Problem       string     `json:"problem"`
	Address       string     `json:"address"`
	PreferredDate *time.Time `json:"preferredDate,omitempty"`

	// Selection. Identifiers are stored as sent; they are not required to
	// reference live catalog rows.
	CategoryID     *string `json:"categoryId,omitempty"`
	SeriesID       *string `json:"seriesId,omitempty"`
	ModelID        *string `json:"modelId,omitempty"`
	InjuryID       *string `json:"injuryId,omitempty"`
	DeviceCategory string  `json:"deviceCategory"`
	SeriesName     string  `json:"seriesName"`
	ModelName      string  `json:"modelName"`
	InjuryName     string  `json:"injuryName"`
	DeviceSKU      string  `gorm:"column:device_sku" json:"deviceSku"`
	DeviceGUID     string  `gorm:"column:device_guid" json:"deviceGuid"`
	Price          Price   `json:"price"`

	FormData datatypes.JSON `json:"formData,omitempty"`
	Raw      datatypes.JSON `json:"raw,omitempty"`
	Meta     datatypes.JSON `json:"meta,omitempty"`

	Shop      string `gorm:"index" json:"shop"`
	Source    string `json:"source"`
	IP        string `gorm:"column:ip" json:"ip"`
	UserAgent string `json:"userAgent"`
}

// BeforeCreate hook generates a UUIDv7 for new submissions
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}
