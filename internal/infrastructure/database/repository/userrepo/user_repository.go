package userrepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/user"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database/dbschema"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
)

type UserGormRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *gorm.DB) user.Repository {
	return &UserGormRepository{db: db}
}

func (repo *UserGormRepository) FindBySubject(ctx context.Context, subject string) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.WithContext(ctx).
		Where("subject = ?", subject).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to find user by subject",
			err,
			"e4b1c2a8-7f3d-4e6a-9b0c-1d2e3f4a5b6c",
		)
	}
	return entity.EtoD(), nil
}

func (repo *UserGormRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to find user by ID",
			err,
			"a7c9d1e3-5b2f-4a8d-8e6c-0f1a2b3c4d5e",
		)
	}
	return entity.EtoD(), nil
}

func (repo *UserGormRepository) FindByFilter(ctx context.Context, filter user.Filter) ([]*user.User, error) {
	query := repo.db.WithContext(ctx).Model(&dbschema.User{})
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Subject != nil {
		query = query.Where("subject = ?", *filter.Subject)
	}
	if filter.Email != nil {
		query = query.Where("LOWER(email) = LOWER(?)", *filter.Email)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", string(*filter.Role))
	}

	var entities []dbschema.User
	if err := query.Order("id ASC").Find(&entities).Error; err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to list users",
			err,
			"2f8e6d4c-1a9b-4e7f-b3c5-6d8e0f2a4b6c",
		)
	}

	users := make([]*user.User, 0, len(entities))
	for i := range entities {
		users = append(users, entities[i].EtoD())
	}
	return users, nil
}

// Upsert creates the profile or refreshes its identity attributes. The
// role column is never touched on conflict so an admin keeps the role,
// and full_name is only written when the identity carries one: tokens
// without a name claim must not erase a provisioned name.
func (repo *UserGormRepository) Upsert(ctx context.Context, usr *user.User) (*user.User, error) {
	schemaUser := dbschema.NewSchemaUser(usr)

	assignments := map[string]any{
		"email":      schemaUser.Email,
		"updated_at": time.Now(),
	}
	if schemaUser.FullName != nil {
		assignments["full_name"] = schemaUser.FullName
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(schemaUser).Error; err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to upsert user",
			err,
			"9c3b5a7d-2e4f-4c6a-8b0d-1f3e5a7c9b2d",
		)
	}

	var persisted dbschema.User
	if err := repo.db.WithContext(ctx).
		Where("subject = ?", schemaUser.Subject).
		First(&persisted).Error; err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to reload upserted user",
			err,
			"6d1f3b5a-8c2e-4d7b-9a4f-0e2c4a6b8d1f",
		)
	}

	return persisted.EtoD(), nil
}

func (repo *UserGormRepository) UpdateRole(ctx context.Context, id uint, role user.Role) error {
	result := repo.db.WithContext(ctx).
		Model(&dbschema.User{}).
		Where("id = ?", id).
		Update("role", string(role))
	if result.Error != nil {
		return apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to update user role",
			result.Error,
			"b8d0f2a4-6c8e-4a1b-bd3f-5e7a9c1d3f5b",
		)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeNotFound,
			"user not found",
			nil,
			"4a6c8e0b-2d4f-4b6d-8f1a-3c5e7b9d1f3a",
		)
	}
	return nil
}

func (repo *UserGormRepository) Delete(ctx context.Context, id uint) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&dbschema.User{})
	if result.Error != nil {
		return apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to delete user",
			result.Error,
			"1e3a5c7b-9d1f-4c3e-a5b7-8f0d2b4c6e8a",
		)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeNotFound,
			"user not found",
			nil,
			"7b9d1f3a-5c7e-4d1b-9f3c-0a2e4c6d8b0f",
		)
	}
	return nil
}
