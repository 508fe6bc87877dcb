package dbschema

import (
	"gorm.io/datatypes"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(AuditLog{})
}

// AuditLog records one admin action against the console API.
type AuditLog struct {
	BaseModel
	ActorSubject string         `gorm:"type:varchar(255);not null;index:ix_audit_logs_actor"`
	ActorEmail   string         `gorm:"type:varchar(255)"`
	Action       string         `gorm:"type:varchar(100);not null;index:ix_audit_logs_action"`
	Resource     string         `gorm:"type:varchar(100);not null"`
	ResourceID   string         `gorm:"type:varchar(255)"`
	Payload      datatypes.JSON `gorm:"type:jsonb"`
	StatusCode   int
	IPAddress    string `gorm:"type:varchar(64)"`
	UserAgent    string `gorm:"type:varchar(512)"`
	ErrorMessage string `gorm:"type:text"`
}
