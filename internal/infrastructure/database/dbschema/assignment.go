package dbschema

import (
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Assignment{})
}

// Assignment links a profile to an agent it may use. The pair is unique.
type Assignment struct {
	BaseModel
	UserID  uint   `gorm:"not null;uniqueIndex:ux_assignments_user_agent"`
	AgentID string `gorm:"type:varchar(255);not null;uniqueIndex:ux_assignments_user_agent"`
	User    *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// NewSchemaAssignment converts a domain assignment into a schema instance.
func NewSchemaAssignment(a *assignment.Assignment) *Assignment {
	if a == nil {
		return nil
	}

	return &Assignment{
		BaseModel: BaseModel{
			ID:        a.ID,
			CreatedAt: a.AssignedAt,
		},
		UserID:  a.UserID,
		AgentID: a.AgentID,
	}
}

// EtoD converts a schema assignment back to the domain representation.
func (a *Assignment) EtoD() *assignment.Assignment {
	if a == nil {
		return nil
	}

	return &assignment.Assignment{
		ID:         a.ID,
		UserID:     a.UserID,
		AgentID:    a.AgentID,
		AssignedAt: a.CreatedAt,
	}
}
