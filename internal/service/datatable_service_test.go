package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"student_insight/internal/datatable"
	"student_insight/internal/model"
	"student_insight/internal/repository"
)

func TestBuildTableFromDemoData(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	demo := &repository.DemoStudentRepository{Now: func() time.Time { return now }}
	builder := datatable.NewBuilder("2006-01-02", time.UTC)
	builder.Now = func() time.Time { return now }
	svc := NewDataTableService(newTestAnalytics(demo), builder)

	grid, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(grid.Columns, datatable.CanonicalOrder) {
		t.Fatalf("columns = %v", grid.Columns)
	}
	// 2 条历史 + 4 条日志 + 15 个分数
	if len(grid.Rows) != 21 {
		t.Fatalf("rows = %d", len(grid.Rows))
	}
	if grid.Rows[0][0] != "Mark" || grid.Rows[0][7] != "2026-03-09" {
		t.Fatalf("first row = %v", grid.Rows[0])
	}
}

func TestToTableInputKeepsMissingMarks(t *testing.T) {
	t.Parallel()
	in := ToTableInput(model.AllData{
		BehaviorHistory: []model.BehaviorSnapshot{{StudentID: "S1", Cluster: 0}},
		Logs:            []model.StudentLog{{StudentID: "S1", ResponseTime: 3}, {StudentID: "S2", Marks: ptrFloat(70)}},
	})
	if !in.BehaviorHistory[0].Cluster.Valid || in.BehaviorHistory[0].Cluster.Value != "0" {
		t.Fatalf("cluster = %+v", in.BehaviorHistory[0].Cluster)
	}
	if in.BehaviorHistory[0].RecordedAt.Valid {
		t.Fatalf("zero time should be invalid")
	}
	if in.Logs[0].Marks.Valid || !in.Logs[1].Marks.Valid {
		t.Fatalf("marks = %+v %+v", in.Logs[0].Marks, in.Logs[1].Marks)
	}
}
