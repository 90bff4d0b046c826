package models

import "time"

// Shop is a storefront that installed the app.
type Shop struct {
	Base
	Domain      string    `gorm:"column:shop;uniqueIndex;not null" json:"shop"`
	AccessToken string    `gorm:"not null" json:"-"`
	Scope       string    `json:"scope"`
	InstalledAt time.Time `json:"installedAt"`
}
