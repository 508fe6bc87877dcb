package dbschema

import (
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/user"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{})
}

// User represents the persisted profile schema tied to an external
// identity provider account.
type User struct {
	BaseModel
	Subject  string  `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_subject"`
	Email    string  `gorm:"type:varchar(320);not null;index:ix_users_email"`
	FullName *string `gorm:"type:varchar(255)"`
	Company  *string `gorm:"type:varchar(255)"`
	Role     string  `gorm:"type:varchar(20);not null;default:'user'"`
}

// NewSchemaUser converts a domain user into a schema instance.
func NewSchemaUser(u *user.User) *User {
	if u == nil {
		return nil
	}

	return &User{
		BaseModel: BaseModel{
			ID:        u.ID,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		},
		Subject:  u.Subject,
		Email:    u.Email,
		FullName: u.FullName,
		Company:  u.Company,
		Role:     string(u.Role),
	}
}

// EtoD converts a schema user back to the domain representation.
func (u *User) EtoD() *user.User {
	if u == nil {
		return nil
	}

	return &user.User{
		ID:        u.ID,
		Subject:   u.Subject,
		Email:     u.Email,
		FullName:  u.FullName,
		Company:   u.Company,
		Role:      user.Role(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
