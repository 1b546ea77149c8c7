package repository

import (
	"context"

	"student_insight/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Available() bool {
	return r.DB != nil
}

// ListLogs limit <= 0 表示不限制
func (r *StudentRepository) ListLogs(ctx context.Context, limit int) ([]model.StudentLog, error) {
	var logs []model.StudentLog
	q := r.DB.WithContext(ctx).Order("student_id ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ListMarks 返回非空分数（降序），studentID 为空时返回全部学生
func (r *StudentRepository) ListMarks(ctx context.Context, studentID string) ([]float64, error) {
	var marks []float64
	q := r.DB.WithContext(ctx).Model(&model.StudentLog{}).Where("marks IS NOT NULL")
	if studentID != "" {
		q = q.Where("student_id = ?", studentID)
	}
	if err := q.Order("marks DESC").Pluck("marks", &marks).Error; err != nil {
		return nil, err
	}
	return marks, nil
}

// ListHistory studentID 为空时按 student_id, recorded_at 排序返回全部快照
func (r *StudentRepository) ListHistory(ctx context.Context, studentID string, limit int, newestFirst bool) ([]model.BehaviorSnapshot, error) {
	var rows []model.BehaviorSnapshot
	q := r.DB.WithContext(ctx)
	if studentID != "" {
		q = q.Where("student_id = ?", studentID)
	} else {
		q = q.Order("student_id ASC")
	}
	if newestFirst {
		q = q.Order("recorded_at DESC")
	} else {
		q = q.Order("recorded_at ASC")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *StudentRepository) SaveSnapshots(ctx context.Context, snapshots []model.BehaviorSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).CreateInBatches(snapshots, 100).Error
}
