package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"reflect"
	"strings"
	"testing"
	"time"

	"student_insight/internal/config"
	"student_insight/internal/model"
	"student_insight/internal/util"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func newTestCharts(store StudentStore, storage *StorageService) *ChartService {
	s := NewChartService(newTestAnalytics(store), storage, "2006-01-02", time.UTC)
	s.Now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }
	s.Uniform = func() float64 { return 0.5 }
	return s
}

func TestAccuracyChartFallback(t *testing.T) {
	t.Parallel()
	data := AccuracyChart(nil)
	if !reflect.DeepEqual(data.Labels, []string{"Maths", "Physics", "DSA", "DBMS", "OS"}) {
		t.Fatalf("labels = %v", data.Labels)
	}
	if data.Datasets[0].Label != "Marks" || !reflect.DeepEqual(data.Datasets[0].Data, []float64{85, 78, 92, 88, 74}) {
		t.Fatalf("dataset = %+v", data.Datasets[0])
	}
}

func TestAccuracyChartRoundsPercent(t *testing.T) {
	t.Parallel()
	data := AccuracyChart([]model.StudentBehavior{{StudentID: "S1", Accuracy: 0.856}, {StudentID: "S2", Accuracy: 0.5}})
	if !reflect.DeepEqual(data.Labels, []string{"ID S1", "ID S2"}) {
		t.Fatalf("labels = %v", data.Labels)
	}
	if !reflect.DeepEqual(data.Datasets[0].Data, []float64{86, 50}) || data.Datasets[0].Label != "Accuracy (%)" {
		t.Fatalf("dataset = %+v", data.Datasets[0])
	}
}

func TestHistogramBins(t *testing.T) {
	t.Parallel()
	data := Histogram([]float64{0, 9.9, 10, 55, 99, 100, 130, -4})
	if len(data.Labels) != 10 || data.Labels[0] != "0-9" || data.Labels[9] != "90-99" {
		t.Fatalf("labels = %v", data.Labels)
	}
	want := []float64{3, 1, 0, 0, 0, 1, 0, 0, 0, 3}
	if !reflect.DeepEqual(data.Datasets[0].Data, want) || data.Datasets[0].Label != "Students" {
		t.Fatalf("bins = %v", data.Datasets[0].Data)
	}

	empty := Histogram(nil)
	if len(empty.Labels) != 0 || len(empty.Datasets) != 0 {
		t.Fatalf("empty histogram = %+v", empty)
	}
}

func TestHistoryChartSynthesizesWhenEmpty(t *testing.T) {
	t.Parallel()
	data := newTestCharts(&fakeStudents{}, nil).HistoryChart(nil)
	if len(data.Labels) != 5 || data.Labels[0] != "2026-03-04" || data.Labels[4] != "2026-03-08" {
		t.Fatalf("labels = %v", data.Labels)
	}
	if data.Datasets[0].Data[0] != 75 || data.Datasets[1].Data[0] != 20 {
		t.Fatalf("datasets = %+v", data.Datasets)
	}
}

func TestChartDataRejectsUnknownKind(t *testing.T) {
	t.Parallel()
	_, err := newTestCharts(&fakeStudents{}, nil).Data(context.Background(), "pie", "")
	if !errors.Is(err, util.ErrUnknownChart) {
		t.Fatalf("err = %v", err)
	}
	_, err = newTestCharts(&fakeStudents{}, nil).Data(context.Background(), ChartHistory, "")
	if !errors.Is(err, util.ErrStudentRequired) {
		t.Fatalf("err = %v", err)
	}
}

func TestRenderPNG(t *testing.T) {
	t.Parallel()
	svc := newTestCharts(&fakeStudents{}, nil)
	for _, data := range []model.ChartData{
		AccuracyChart(nil),
		Histogram([]float64{70, 85, 91}),
		svc.HistoryChart([]model.BehaviorSnapshot{{Accuracy: 0.8, AvgResponseTime: 12, RecordedAt: time.Now()}}),
	} {
		var buf bytes.Buffer
		if err := svc.RenderPNG(data, &buf); err != nil {
			t.Fatalf("RenderPNG(%s): %v", data.Kind, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
			t.Fatalf("%s: not a png", data.Kind)
		}
	}

	if err := svc.RenderPNG(Histogram(nil), &bytes.Buffer{}); !errors.Is(err, util.ErrNoChartData) {
		t.Fatalf("empty histogram err = %v", err)
	}
}

func TestRenderHistorySingleSnapshot(t *testing.T) {
	t.Parallel()
	store := &fakeStudents{history: []model.BehaviorSnapshot{
		{StudentID: "S1", Accuracy: 0.8, AvgResponseTime: 12, RecordedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}}
	svc := newTestCharts(store, nil)
	data, err := svc.Data(context.Background(), ChartHistory, "S1")
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if len(data.Labels) != 1 {
		t.Fatalf("labels = %v", data.Labels)
	}

	var buf bytes.Buffer
	if err := svc.RenderPNG(data, &buf); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != svc.Width || b.Dy() != svc.Height {
		t.Fatalf("bounds = %v", b)
	}
}

func TestHistoryChartUsesLocation(t *testing.T) {
	t.Parallel()
	svc := newTestCharts(&fakeStudents{}, nil)
	svc.Location = time.FixedZone("UTC+8", 8*3600)

	// UTC 3 月 1 日 20 点在东八区已是 3 月 2 日
	data := svc.HistoryChart([]model.BehaviorSnapshot{
		{Accuracy: 0.5, RecordedAt: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)},
	})
	if want := []string{"2026-03-02"}; !reflect.DeepEqual(data.Labels, want) {
		t.Fatalf("labels = %v, want %v", data.Labels, want)
	}
}

func TestExportUploadsToStorage(t *testing.T) {
	t.Parallel()
	storage, err := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()}})
	if err != nil {
		t.Fatalf("NewStorageService: %v", err)
	}
	store := &fakeStudents{marks: map[string][]float64{"": {55, 65}}}
	url, err := newTestCharts(store, storage).Export(context.Background(), ChartHistogram, "")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/charts/histogram-") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}
}
