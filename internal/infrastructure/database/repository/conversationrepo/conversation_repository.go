package conversationrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/conversation"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database/dbschema"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
)

type ConversationGormRepository struct {
	db *gorm.DB
}

var _ conversation.Repository = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *gorm.DB) conversation.Repository {
	return &ConversationGormRepository{db: db}
}

func (repo *ConversationGormRepository) FindByKey(ctx context.Context, key conversation.Key) (*conversation.Conversation, error) {
	var entity dbschema.Conversation
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND agent_id = ? AND session_id = ?", key.UserID, key.AgentID, key.SessionID).
		First(&entity).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, conversation.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to find conversation",
			err,
			"f2a4c6e8-0b2d-4f6a-8c0e-3d5f7b9d1f3b",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ConversationGormRepository) CreateWithFirstMessage(ctx context.Context, conv *conversation.Conversation, msg *conversation.Message) (*conversation.Conversation, error) {
	entity := dbschema.NewSchemaConversation(conv)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		msgEntity := dbschema.NewSchemaMessage(msg)
		msgEntity.ConversationID = entity.ID
		msgEntity.Seq = 1
		if err := tx.Create(msgEntity).Error; err != nil {
			return err
		}
		entity.Messages = []dbschema.Message{*msgEntity}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conversation.ErrDuplicateKey
		}
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to create conversation",
			err,
			"a1c3e5b7-9d1f-4a3c-8e5b-7f9b1d3f5a7c",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ConversationGormRepository) AppendMessage(ctx context.Context, conversationID uint, msg *conversation.Message) (*conversation.Message, error) {
	entity := dbschema.NewSchemaMessage(msg)
	entity.ConversationID = conversationID

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int
		err := tx.Model(&dbschema.Message{}).
			Where("conversation_id = ?", conversationID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).
			Error
		if err != nil {
			return err
		}
		entity.Seq = maxSeq + 1
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		return tx.Model(&dbschema.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", time.Now()).
			Error
	})
	if err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to append message",
			err,
			"c5e7a9d1-3f5b-4c7e-9b1d-8a0c2e4d6f8b",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ConversationGormRepository) ListByUser(ctx context.Context, userID uint) ([]*conversation.Conversation, error) {
	var entities []dbschema.Conversation
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to list conversations",
			err,
			"e9b1d3f5-a7c9-4e1b-8d3f-0c2e4a6c8e0d",
		)
	}

	conversations := make([]*conversation.Conversation, 0, len(entities))
	for i := range entities {
		conversations = append(conversations, entities[i].EtoD())
	}
	return conversations, nil
}

func (repo *ConversationGormRepository) GetWithMessages(ctx context.Context, key conversation.Key) (*conversation.Conversation, error) {
	var entity dbschema.Conversation
	err := repo.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("user_id = ? AND agent_id = ? AND session_id = ?", key.UserID, key.AgentID, key.SessionID).
		First(&entity).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, conversation.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to load conversation transcript",
			err,
			"b3d5f7a9-c1e3-4b5d-9f7a-2e4c6a8c0e2f",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ConversationGormRepository) Delete(ctx context.Context, key conversation.Key) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND agent_id = ? AND session_id = ?", key.UserID, key.AgentID, key.SessionID).
		Delete(&dbschema.Conversation{})
	if result.Error != nil {
		return apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to delete conversation",
			result.Error,
			"d7f9b1d3-e5a7-4d9f-8b1d-4a6c8e0a2c4e",
		)
	}
	if result.RowsAffected == 0 {
		return conversation.ErrNotFound
	}
	return nil
}

func (repo *ConversationGormRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&dbschema.Conversation{}).
			Select("id").
			Where("updated_at < ?", cutoff)
		if err := tx.Where("conversation_id IN (?)", stale).
			Delete(&dbschema.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("updated_at < ?", cutoff).Delete(&dbschema.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, apperrors.New(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeStorage,
			"failed to prune stale conversations",
			err,
			"1f3a5c7e-9b1d-4f3a-b5c7-e9f1a3b5d7c9",
		)
	}
	return removed, nil
}
