// Package audit records admin actions for later review.
package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database/dbschema"
)

// Logger persists admin actions to the audit_logs table. Writes are
// best-effort: a failed insert is logged and the request proceeds.
type Logger struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewLogger(db *gorm.DB, logger zerolog.Logger) *Logger {
	return &Logger{db: db, logger: logger}
}

// Entry describes one admin action.
type Entry struct {
	ActorSubject string
	ActorEmail   string
	Action       string
	Resource     string
	ResourceID   string
	Payload      any
	StatusCode   int
	IPAddress    string
	UserAgent    string
	Err          error
}

// Record persists the entry. A nil Logger is a no-op so call sites do
// not need to guard against auditing being disabled.
func (l *Logger) Record(ctx context.Context, entry Entry) {
	if l == nil || l.db == nil {
		return
	}

	row := dbschema.AuditLog{
		ActorSubject: entry.ActorSubject,
		ActorEmail:   entry.ActorEmail,
		Action:       entry.Action,
		Resource:     entry.Resource,
		ResourceID:   entry.ResourceID,
		StatusCode:   entry.StatusCode,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
	}
	if entry.Payload != nil {
		if b, err := json.Marshal(entry.Payload); err == nil {
			row.Payload = b
		}
	}
	if entry.Err != nil {
		row.ErrorMessage = entry.Err.Error()
	}

	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		l.logger.Warn().Err(err).Str("action", entry.Action).Msg("failed to write audit log")
	}
}
