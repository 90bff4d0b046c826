package models

// AuditLog records admin catalog mutations.
type AuditLog struct {
	Base
	Actor        string `gorm:"not null" json:"actor"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null;index" json:"resourceType"`
	ResourceID   string `gorm:"index" json:"resourceId"`
	IPAddress    string `json:"ipAddress"`
	Changes      string `json:"changes,omitempty"`
}
