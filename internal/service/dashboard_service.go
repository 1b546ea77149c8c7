package service

import (
	"context"
	"sync"

	"student_insight/internal/datatable"
	"student_insight/internal/model"
)

// Section 每块数据独立成败，Error 非空时 Data 为空
type Section[T any] struct {
	Data  T      `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type Overview struct {
	Analysis Section[[]model.StudentBehavior]  `json:"analysis"`
	History  Section[[]model.BehaviorSnapshot] `json:"history"`
	Marks    Section[[]float64]                `json:"marks"`
	Table    Section[*datatable.Grid]          `json:"table"`
}

type DashboardService struct {
	Analytics *AnalyticsService
	Table     *DataTableService
}

func NewDashboardService(analytics *AnalyticsService, table *DataTableService) *DashboardService {
	return &DashboardService{Analytics: analytics, Table: table}
}

// Overview 并发拉取四块数据；studentID 为空时跳过历史
func (s *DashboardService) Overview(ctx context.Context, studentID string) Overview {
	var (
		out Overview
		wg  sync.WaitGroup
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		out.Analysis = capture(s.Analytics.Analyze(ctx))
	}()
	go func() {
		defer wg.Done()
		if studentID == "" {
			out.History = Section[[]model.BehaviorSnapshot]{Data: []model.BehaviorSnapshot{}}
			return
		}
		out.History = capture(s.Analytics.History(ctx, studentID))
	}()
	go func() {
		defer wg.Done()
		out.Marks = capture(s.Analytics.Marks(ctx))
	}()
	go func() {
		defer wg.Done()
		grid, err := s.Table.Build(ctx)
		if err != nil {
			out.Table = Section[*datatable.Grid]{Error: err.Error()}
			return
		}
		out.Table = Section[*datatable.Grid]{Data: &grid}
	}()
	wg.Wait()

	return out
}

func capture[T any](v T, err error) Section[T] {
	if err != nil {
		return Section[T]{Error: err.Error()}
	}
	return Section[T]{Data: v}
}
