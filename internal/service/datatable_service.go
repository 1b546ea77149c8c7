package service

import (
	"context"
	"strconv"

	"student_insight/internal/datatable"
	"student_insight/internal/model"
	"student_insight/pkg/monitoring"
	"student_insight/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type DataTableService struct {
	Analytics *AnalyticsService
	Builder   *datatable.Builder
}

func NewDataTableService(analytics *AnalyticsService, builder *datatable.Builder) *DataTableService {
	return &DataTableService{Analytics: analytics, Builder: builder}
}

// Build 从数据源读取 /all-data 并生成表格
func (s *DataTableService) Build(ctx context.Context) (datatable.Grid, error) {
	all, err := s.Analytics.AllData(ctx)
	if err != nil {
		return datatable.Grid{}, err
	}
	return s.Render(ctx, ToTableInput(all)), nil
}

// Render 对调用方提供的输入建表
func (s *DataTableService) Render(ctx context.Context, in datatable.Input) datatable.Grid {
	_, span := tracing.StartSpan(ctx, "datatable.build",
		attribute.Int("behavior", len(in.BehaviorHistory)),
		attribute.Int("logs", len(in.Logs)),
		attribute.Int("marks", len(in.Marks)),
	)
	defer span.End()

	table := s.Builder.Build(in)
	monitoring.DatatableRows.Observe(float64(len(table.Rows)))
	span.SetAttributes(attribute.Int("rows", len(table.Rows)), attribute.Int("columns", len(table.Columns)))
	return table.Grid()
}

func ToTableInput(all model.AllData) datatable.Input {
	in := datatable.Input{
		BehaviorHistory: make([]datatable.BehaviorRecord, 0, len(all.BehaviorHistory)),
		Logs:            make([]datatable.LogRecord, 0, len(all.Logs)),
		Marks:           make([]datatable.MarkRecord, 0, len(all.Marks)),
	}
	for _, h := range all.BehaviorHistory {
		rec := datatable.BehaviorRecord{
			StudentID:       h.StudentID,
			Accuracy:        datatable.NumberOf(h.Accuracy),
			AvgResponseTime: datatable.NumberOf(h.AvgResponseTime),
			AvgAttempts:     datatable.NumberOf(h.AvgAttempts),
			Cluster:         datatable.LabelOf(strconv.Itoa(h.Cluster)),
			Recommendation:  h.Recommendation,
		}
		if !h.RecordedAt.IsZero() {
			rec.RecordedAt = datatable.TimestampOf(h.RecordedAt)
		}
		in.BehaviorHistory = append(in.BehaviorHistory, rec)
	}
	for _, l := range all.Logs {
		rec := datatable.LogRecord{
			StudentID:    l.StudentID,
			ResponseTime: datatable.NumberOf(l.ResponseTime),
		}
		if l.Marks != nil {
			rec.Marks = datatable.NumberOf(*l.Marks)
		}
		if !l.LoggedAt.IsZero() {
			rec.LoggedAt = datatable.TimestampOf(l.LoggedAt)
		}
		in.Logs = append(in.Logs, rec)
	}
	for _, m := range all.Marks {
		in.Marks = append(in.Marks, datatable.MarkRecord{Marks: datatable.NumberOf(m.Marks)})
	}
	return in
}
