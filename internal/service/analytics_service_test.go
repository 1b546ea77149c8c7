package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"student_insight/internal/analysis"
	"student_insight/internal/model"
	"student_insight/internal/repository"
	"student_insight/internal/util"
)

func newTestAnalytics(store StudentStore) *AnalyticsService {
	s := NewAnalyticsService(store, 100)
	s.NewRand = func() *rand.Rand { return rand.New(rand.NewPCG(3, 4)) }
	return s
}

func TestAnalyzeWithoutLogsReturnsSample(t *testing.T) {
	t.Parallel()
	got, err := newTestAnalytics(&fakeStudents{available: true}).Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(got) != 2 || got[0].StudentID != "24KQ1A5444" || got[1].Recommendation != analysis.RecommendTimedQuizzes {
		t.Fatalf("sample = %+v", got)
	}
}

func TestAnalyzeStoresSnapshotsWhenAvailable(t *testing.T) {
	t.Parallel()
	store := &fakeStudents{
		available: true,
		logs: []model.StudentLog{
			{StudentID: "B", ResponseTime: 25, Attempts: 1, Correct: 1},
			{StudentID: "A", ResponseTime: 10, Attempts: 1, Correct: 0},
			{StudentID: "A", ResponseTime: 12, Attempts: 3, Correct: 0.5},
		},
	}
	got, err := newTestAnalytics(store).Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(got) != 2 || got[0].StudentID != "A" || got[1].StudentID != "B" {
		t.Fatalf("analysis = %+v", got)
	}
	if got[0].Recommendation != analysis.RecommendFundamentals || got[1].Recommendation != analysis.RecommendTimedQuizzes {
		t.Fatalf("recommendations = %q, %q", got[0].Recommendation, got[1].Recommendation)
	}
	if len(store.saved) != 2 || store.saved[0].Accuracy != 0.25 {
		t.Fatalf("saved = %+v", store.saved)
	}
}

func TestAnalyzeDemoDoesNotStore(t *testing.T) {
	t.Parallel()
	got, err := newTestAnalytics(repository.NewDemoStudentRepository()).Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 demo students, got %d", len(got))
	}
}

func TestAnalyzeFallsBackOnStoreError(t *testing.T) {
	t.Parallel()
	got, err := newTestAnalytics(&fakeStudents{err: errors.New("boom")}).Analyze(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("Analyze = %v, %v", got, err)
	}
}

func TestAllDataWrapsMarks(t *testing.T) {
	t.Parallel()
	store := &fakeStudents{marks: map[string][]float64{"": {90, 40}}}
	all, err := newTestAnalytics(store).AllData(context.Background())
	if err != nil {
		t.Fatalf("AllData: %v", err)
	}
	if all.BehaviorHistory == nil || all.Logs == nil {
		t.Fatalf("collections must be non-nil: %+v", all)
	}
	if len(all.Marks) != 2 || all.Marks[0].Marks != 90 {
		t.Fatalf("marks = %+v", all.Marks)
	}
}

func TestHistoryErrorIsDataSourceUnavailable(t *testing.T) {
	t.Parallel()
	_, err := newTestAnalytics(&fakeStudents{err: errors.New("down")}).History(context.Background(), "S1")
	if !errors.Is(err, util.ErrDataSourceUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
