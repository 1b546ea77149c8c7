package repository

import (
	"context"
	"encoding/json"

	"student_insight/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationRepository struct {
	DB *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

func (r *ConversationRepository) Append(ctx context.Context, source string, conversation []model.ChatMessage, reply string) error {
	raw, err := json.Marshal(conversation)
	if err != nil {
		return err
	}
	entry := &model.AIConversationLog{
		ReplySource:  source,
		Conversation: datatypes.JSON(raw),
		Reply:        reply,
	}
	return r.DB.WithContext(ctx).Create(entry).Error
}

