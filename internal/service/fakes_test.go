package service

import (
	"context"
	"sync"

	"student_insight/internal/model"
)

type fakeStudents struct {
	mu        sync.Mutex
	available bool
	logs      []model.StudentLog
	history   []model.BehaviorSnapshot
	marks     map[string][]float64
	err       error
	marksErr  error
	saved     []model.BehaviorSnapshot
}

func (f *fakeStudents) Available() bool { return f.available }

func (f *fakeStudents) ListLogs(ctx context.Context, limit int) ([]model.StudentLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.logs) > limit {
		return f.logs[:limit], nil
	}
	return f.logs, nil
}

func (f *fakeStudents) ListMarks(ctx context.Context, studentID string) ([]float64, error) {
	if f.marksErr != nil {
		return nil, f.marksErr
	}
	return f.marks[studentID], f.err
}

func (f *fakeStudents) ListHistory(ctx context.Context, studentID string, limit int, newestFirst bool) ([]model.BehaviorSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.BehaviorSnapshot
	for _, h := range f.history {
		if studentID == "" || h.StudentID == studentID {
			out = append(out, h)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStudents) SaveSnapshots(ctx context.Context, snapshots []model.BehaviorSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, snapshots...)
	return nil
}

type fakeEdges struct {
	edges []model.AStarEdge
}

func (f *fakeEdges) Create(ctx context.Context, edge *model.AStarEdge) error {
	f.edges = append(f.edges, *edge)
	return nil
}

func (f *fakeEdges) List(ctx context.Context) ([]model.AStarEdge, error) {
	return f.edges, nil
}

type fakeConversations struct {
	sources []string
	replies []string
}

func (f *fakeConversations) Append(ctx context.Context, source string, conversation []model.ChatMessage, reply string) error {
	f.sources = append(f.sources, source)
	f.replies = append(f.replies, reply)
	return nil
}

type fakeChatter struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatter) Chat(ctx context.Context, conversation []model.ChatMessage) (string, error) {
	f.calls++
	return f.reply, f.err
}

func ptrFloat(v float64) *float64 { return &v }
