package assignmentrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database/dbschema"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
)

type AssignmentGormRepository struct {
	db *gorm.DB
}

var _ assignment.Repository = (*AssignmentGormRepository)(nil)

func NewAssignmentGormRepository(db *gorm.DB) assignment.Repository {
	return &AssignmentGormRepository{db: db}
}

func (repo *AssignmentGormRepository) Create(ctx context.Context, a *assignment.Assignment) (*assignment.Assignment, error) {
	entity := dbschema.NewSchemaAssignment(a)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, assignment.ErrDuplicate
		}
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to create assignment",
			err,
			"3c5e7a9b-1d3f-4e5c-b7a9-2f4c6e8a0d2b",
		)
	}
	return entity.EtoD(), nil
}

func (repo *AssignmentGormRepository) Delete(ctx context.Context, userID uint, agentID string) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND agent_id = ?", userID, agentID).
		Delete(&dbschema.Assignment{})
	if result.Error != nil {
		return apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to delete assignment",
			result.Error,
			"8a0c2e4d-6f8b-4a2d-9c4e-5b7d9f1a3c5e",
		)
	}
	if result.RowsAffected == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

func (repo *AssignmentGormRepository) ListByUser(ctx context.Context, userID uint) ([]*assignment.Assignment, error) {
	var entities []dbschema.Assignment
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to list assignments",
			err,
			"5d7f9b1c-3e5a-4f7d-8b0c-6e8a0c2e4f6d",
		)
	}

	assignments := make([]*assignment.Assignment, 0, len(entities))
	for i := range entities {
		assignments = append(assignments, entities[i].EtoD())
	}
	return assignments, nil
}

func (repo *AssignmentGormRepository) Exists(ctx context.Context, userID uint, agentID string) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&dbschema.Assignment{}).
		Where("user_id = ? AND agent_id = ?", userID, agentID).
		Count(&count).
		Error
	if err != nil {
		return false, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to check assignment",
			err,
			"0b2d4f6a-8c0e-4b4f-a6c8-1d3f5b7d9e1c",
		)
	}
	return count > 0, nil
}
