package model

import (
	"time"

	"gorm.io/datatypes"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AIConversationLog 记录 /ask-ai 的一次问答，Conversation 为请求时的完整对话（不含回复）
type AIConversationLog struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ReplySource  string         `gorm:"size:20;index" json:"replySource"` // astar / astar-user / llm
	Conversation datatypes.JSON `gorm:"type:json" json:"conversation"`
	Reply        string         `gorm:"type:text" json:"reply"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
}

func (AIConversationLog) TableName() string {
	return "ai_conversation_logs"
}
