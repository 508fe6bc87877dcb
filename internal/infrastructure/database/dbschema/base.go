package dbschema

import "time"

// BaseModel carries the common persistence columns.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
