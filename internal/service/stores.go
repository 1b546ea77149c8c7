package service

import (
	"context"

	"student_insight/internal/model"
)

// StudentStore 由 gorm 仓库或演示数据源实现
type StudentStore interface {
	Available() bool
	ListLogs(ctx context.Context, limit int) ([]model.StudentLog, error)
	ListMarks(ctx context.Context, studentID string) ([]float64, error)
	ListHistory(ctx context.Context, studentID string, limit int, newestFirst bool) ([]model.BehaviorSnapshot, error)
	SaveSnapshots(ctx context.Context, snapshots []model.BehaviorSnapshot) error
}

type EdgeStore interface {
	Create(ctx context.Context, edge *model.AStarEdge) error
	List(ctx context.Context) ([]model.AStarEdge, error)
}

type ConversationStore interface {
	Append(ctx context.Context, source string, conversation []model.ChatMessage, reply string) error
}
