package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"student_insight/internal/analysis"
	"student_insight/internal/model"
	"student_insight/internal/util"
	"student_insight/pkg/logger"

	"go.uber.org/zap"
)

const defaultClusters = 3

// emptyAnalysis 没有任何答题记录时返回的示例结果
var emptyAnalysis = []model.StudentBehavior{
	{StudentID: "24KQ1A5444", Accuracy: 0.85, AvgResponseTime: 15.2, Cluster: 0, Recommendation: analysis.RecommendAdvanced},
	{StudentID: "24KQ1A5445", Accuracy: 0.78, AvgResponseTime: 18.5, Cluster: 1, Recommendation: analysis.RecommendTimedQuizzes},
}

type AnalyticsService struct {
	Students  StudentStore
	Clusters  int
	LogsLimit int
	NewRand   func() *rand.Rand
}

func NewAnalyticsService(students StudentStore, logsLimit int) *AnalyticsService {
	return &AnalyticsService{
		Students:  students,
		Clusters:  defaultClusters,
		LogsLimit: logsLimit,
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// Analyze 聚合、聚类并生成建议；数据库可用时把结果追加到历史表
func (s *AnalyticsService) Analyze(ctx context.Context) ([]model.StudentBehavior, error) {
	logs, err := s.Students.ListLogs(ctx, 0)
	if err != nil {
		logger.Log.Warn("Failed to load student logs, using sample analysis", zap.Error(err))
		logs = nil
	}
	if len(logs) == 0 {
		out := make([]model.StudentBehavior, len(emptyAnalysis))
		copy(out, emptyAnalysis)
		return out, nil
	}

	samples := make([]analysis.Sample, len(logs))
	for i, l := range logs {
		samples[i] = analysis.Sample{
			StudentID:    l.StudentID,
			ResponseTime: l.ResponseTime,
			Attempts:     l.Attempts,
			Correct:      l.Correct,
		}
	}
	clustered := analysis.Cluster(analysis.Aggregate(samples), s.Clusters, s.NewRand())

	out := make([]model.StudentBehavior, len(clustered))
	snapshots := make([]model.BehaviorSnapshot, len(clustered))
	for i, b := range clustered {
		out[i] = model.StudentBehavior{
			StudentID:       b.StudentID,
			AvgResponseTime: b.AvgResponseTime,
			AvgAttempts:     b.AvgAttempts,
			Accuracy:        b.Accuracy,
			Cluster:         b.Cluster,
			Recommendation:  b.Recommendation,
		}
		snapshots[i] = model.BehaviorSnapshot{
			StudentID:       b.StudentID,
			AvgResponseTime: b.AvgResponseTime,
			AvgAttempts:     b.AvgAttempts,
			Accuracy:        b.Accuracy,
			Cluster:         b.Cluster,
			Recommendation:  b.Recommendation,
		}
	}

	if s.Students.Available() {
		if err := s.Students.SaveSnapshots(ctx, snapshots); err != nil {
			logger.Log.Error("Failed to save behavior snapshots", zap.Int("count", len(snapshots)), zap.Error(err))
		}
	}
	return out, nil
}

func (s *AnalyticsService) History(ctx context.Context, studentID string) ([]model.BehaviorSnapshot, error) {
	rows, err := s.Students.ListHistory(ctx, studentID, 0, false)
	if err != nil {
		return nil, fmt.Errorf("%w: history for %s: %v", util.ErrDataSourceUnavailable, studentID, err)
	}
	return rows, nil
}

func (s *AnalyticsService) Marks(ctx context.Context) ([]float64, error) {
	marks, err := s.Students.ListMarks(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: marks: %v", util.ErrDataSourceUnavailable, err)
	}
	return marks, nil
}

// AllData 数据表的原始输入：全部历史、前 LogsLimit 条日志、降序分数
func (s *AnalyticsService) AllData(ctx context.Context) (model.AllData, error) {
	history, err := s.Students.ListHistory(ctx, "", 0, false)
	if err != nil {
		return model.AllData{}, fmt.Errorf("%w: behavior history: %v", util.ErrDataSourceUnavailable, err)
	}
	logs, err := s.Students.ListLogs(ctx, s.LogsLimit)
	if err != nil {
		return model.AllData{}, fmt.Errorf("%w: logs: %v", util.ErrDataSourceUnavailable, err)
	}
	marks, err := s.Students.ListMarks(ctx, "")
	if err != nil {
		return model.AllData{}, fmt.Errorf("%w: marks: %v", util.ErrDataSourceUnavailable, err)
	}

	wrapped := make([]model.MarkValue, len(marks))
	for i, m := range marks {
		wrapped[i] = model.MarkValue{Marks: m}
	}
	return model.AllData{
		BehaviorHistory: nonNil(history),
		Logs:            nonNil(logs),
		Marks:           wrapped,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
