package repository

import (
	"context"
	"slices"
	"time"

	"student_insight/internal/model"
)

// DemoStudentRepository 数据库不可用时提供固定的演示数据
type DemoStudentRepository struct {
	Now func() time.Time
}

func NewDemoStudentRepository() *DemoStudentRepository {
	return &DemoStudentRepository{Now: time.Now}
}

func (r *DemoStudentRepository) Available() bool {
	return false
}

var demoMarks = []float64{85, 78, 92, 88, 76, 82, 90, 79, 81, 86, 75, 89, 84, 77, 91}

func ptr(v float64) *float64 {
	return &v
}

func (r *DemoStudentRepository) logs() []model.StudentLog {
	now := r.Now()
	return []model.StudentLog{
		{ID: 1, StudentID: "24KQ1A5444", ResponseTime: 15.2, Attempts: 1.8, Correct: 0.85, Marks: ptr(85), LoggedAt: now.AddDate(0, 0, -1)},
		{ID: 2, StudentID: "24KQ1A5445", ResponseTime: 18.5, Attempts: 2.1, Correct: 0.78, Marks: ptr(78), LoggedAt: now.AddDate(0, 0, -2)},
		{ID: 3, StudentID: "24KQ1A5446", ResponseTime: 12.3, Attempts: 1.5, Correct: 0.92, Marks: ptr(92), LoggedAt: now.AddDate(0, 0, -3)},
		{ID: 4, StudentID: "24KQ1A5447", ResponseTime: 20.1, Attempts: 2.5, Correct: 0.70, Marks: ptr(70), LoggedAt: now.AddDate(0, 0, -4)},
	}
}

func (r *DemoStudentRepository) ListLogs(ctx context.Context, limit int) ([]model.StudentLog, error) {
	logs := r.logs()
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r *DemoStudentRepository) ListMarks(ctx context.Context, studentID string) ([]float64, error) {
	if studentID == "" {
		marks := slices.Clone(demoMarks)
		slices.SortFunc(marks, func(a, b float64) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			}
			return 0
		})
		return marks, nil
	}
	var marks []float64
	for _, l := range r.logs() {
		if l.StudentID == studentID && l.Marks != nil {
			marks = append(marks, *l.Marks)
		}
	}
	return marks, nil
}

func (r *DemoStudentRepository) ListHistory(ctx context.Context, studentID string, limit int, newestFirst bool) ([]model.BehaviorSnapshot, error) {
	now := r.Now()
	var rows []model.BehaviorSnapshot
	if studentID == "" {
		rows = []model.BehaviorSnapshot{
			{ID: 1, StudentID: "24KQ1A5444", AvgResponseTime: 15.2, AvgAttempts: 1.8, Accuracy: 0.85, Cluster: 0, Recommendation: "Advanced challenge questions recommended", RecordedAt: now.AddDate(0, 0, -5)},
			{ID: 2, StudentID: "24KQ1A5445", AvgResponseTime: 18.5, AvgAttempts: 2.1, Accuracy: 0.78, Cluster: 1, Recommendation: "Practice timed quizzes", RecordedAt: now.AddDate(0, 0, -3)},
		}
	} else {
		points := []struct {
			accuracy float64
			response float64
		}{{0.75, 18}, {0.80, 16}, {0.82, 15}, {0.85, 14}, {0.85, 15}}
		for i, p := range points {
			rows = append(rows, model.BehaviorSnapshot{
				ID:              uint(i + 1),
				StudentID:       studentID,
				AvgResponseTime: p.response,
				Accuracy:        p.accuracy,
				RecordedAt:      now.AddDate(0, 0, i-len(points)),
			})
		}
		if newestFirst {
			slices.Reverse(rows)
		}
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *DemoStudentRepository) SaveSnapshots(ctx context.Context, snapshots []model.BehaviorSnapshot) error {
	return nil
}
