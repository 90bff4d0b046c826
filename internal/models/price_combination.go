package models

// ScopeLevel names the device-hierarchy level a price override applies to.
type ScopeLevel string

const (
	ScopeModel    ScopeLevel = "model"
	ScopeSeries   ScopeLevel = "series"
	ScopeCategory ScopeLevel = "category"
)

// PriceCombination overrides an injury's default price for one category,
// series or model. ScopeLevel and ScopeID mirror whichever device field is
// set and carry the unique index that keeps one price per scope and injury.
type PriceCombination struct {
	Base
	CategoryID *string    `gorm:"type:uuid;index" json:"categoryId,omitempty"`
	SeriesID   *string    `gorm:"type:uuid;index" json:"seriesId,omitempty"`
	ModelID    *string    `gorm:"type:uuid;index" json:"modelId,omitempty"`
	InjuryID   string     `gorm:"type:uuid;not null;index;uniqueIndex:idx_price_scope_injury,priority:3" json:"injuryId"`
	Price      Price      `gorm:"not null" json:"price"`
	Notes      string     `json:"notes,omitempty"`
	ScopeLevel ScopeLevel `gorm:"not null;uniqueIndex:idx_price_scope_injury,priority:1" json:"scopeLevel"`
	ScopeID    string     `gorm:"type:uuid;not null;uniqueIndex:idx_price_scope_injury,priority:2" json:"-"`
}

// Scope returns the single device scope the combination applies to. ok is
// false when none or more than one of the device fields is set.
func (p *PriceCombination) Scope() (level ScopeLevel, id string, ok bool) {
	set := 0
	if p.ModelID != nil {
		level, id = ScopeModel, *p.ModelID
		set++
	}
	if p.SeriesID != nil {
		level, id = ScopeSeries, *p.SeriesID
		set++
	}
	if p.CategoryID != nil {
		level, id = ScopeCategory, *p.CategoryID
		set++
	}
	if set != 1 {
		return "", "", false
	}
	return level, id, true
}

// ApplyScope copies the device scope into ScopeLevel/ScopeID.
func (p *PriceCombination) ApplyScope() bool {
	level, id, ok := p.Scope()
	if !ok {
		return false
	}
	p.ScopeLevel = level
	p.ScopeID = id
	return true
}
