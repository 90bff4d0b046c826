package models

// Category is a top-level device class such as "Phones" or "Laptops".
type Category struct {
	Base
	Name  string `gorm:"not null" json:"name"`
	Image string `json:"image,omitempty"`
	Order int    `gorm:"column:sort_order;not null;default:0;index" json:"order"`
}

// Series is a product line within a category.
type Series struct {
	Base
	CategoryID string `gorm:"type:uuid;not null;index" json:"categoryId"`
	Name       string `gorm:"not null" json:"name"`
	Slug       string `gorm:"index" json:"slug,omitempty"`
	Image      string `json:"image,omitempty"`
	Order      int    `gorm:"column:sort_order;not null;default:0;index" json:"order"`
}

// TableName overrides the table name used by Series to `series`
func (Series) TableName() string { return "series" }

// DeviceModel is a specific device within a series.
type DeviceModel struct {
	Base
	SeriesID string `gorm:"type:uuid;not null;index" json:"seriesId"`
	Name     string `gorm:"not null" json:"name"`
	SKU      string `gorm:"column:sku" json:"sku,omitempty"`
	GUID     string `gorm:"column:guid" json:"guid,omitempty"`
	Order    int    `gorm:"column:sort_order;not null;default:0;index" json:"order"`
}

// InjuryType is a damage/repair kind. It is independent of the device
// hierarchy and carries the fallback price used when no override matches.
type InjuryType struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Image        string `json:"image,omitempty"`
	DefaultPrice Price  `gorm:"not null;default:'0'" json:"defaultPrice"`
}
