package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"student_insight/internal/model"
	"student_insight/internal/pathfind"
	"student_insight/internal/util"
	"student_insight/pkg/logger"
	"student_insight/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	astarPrefix     = "astar "
	astarUserPrefix = "astar-user "

	defaultHistoryLimit = 5
	userMarksShown      = 10
)

type Chatter interface {
	Chat(ctx context.Context, conversation []model.ChatMessage) (string, error)
}

type Reply struct {
	Reply  string `json:"reply"`
	Source string `json:"-"`
}

// AssistantService 处理 /ask-ai：先匹配 astar 命令，其余转给大模型
type AssistantService struct {
	Students      StudentStore
	Edges         EdgeStore
	Conversations ConversationStore
	AI            Chatter
	// HistoryLimit astar-user 展示的最近快照条数
	HistoryLimit int
}

func NewAssistantService(students StudentStore, edges EdgeStore, conversations ConversationStore, ai Chatter) *AssistantService {
	return &AssistantService{
		Students:      students,
		Edges:         edges,
		Conversations: conversations,
		AI:            ai,
		HistoryLimit:  defaultHistoryLimit,
	}
}

func (s *AssistantService) Ask(ctx context.Context, conversation []model.ChatMessage) (Reply, error) {
	if len(conversation) == 0 {
		return Reply{}, util.ErrEmptyConversation
	}

	reply, err := s.dispatch(ctx, conversation)
	if err != nil {
		return Reply{}, err
	}
	monitoring.AIReplies.WithLabelValues(reply.Source).Inc()
	s.record(ctx, conversation, reply)
	return reply, nil
}

func (s *AssistantService) dispatch(ctx context.Context, conversation []model.ChatMessage) (Reply, error) {
	last := conversation[len(conversation)-1]
	if last.Role == "user" {
		msg := strings.TrimSpace(last.Content)
		switch {
		case strings.HasPrefix(msg, astarUserPrefix):
			return s.userSummary(ctx, strings.TrimSpace(strings.TrimPrefix(msg, astarUserPrefix)))
		case strings.HasPrefix(msg, astarPrefix):
			if reply, ok, err := s.astar(ctx, msg); ok || err != nil {
				return reply, err
			}
		}
	}

	answer, err := s.AI.Chat(ctx, conversation)
	if err != nil {
		logger.Log.Warn("AI request failed", zap.Error(err))
		return Reply{Reply: fmt.Sprintf("[Error contacting AI: %v]", err), Source: util.ReplySourceError}, nil
	}
	return Reply{Reply: answer, Source: util.ReplySourceLLM}, nil
}

// astar 命令格式：astar <start> edges: <goal> a-b:cost ...；格式不符时 ok=false
func (s *AssistantService) astar(ctx context.Context, msg string) (Reply, bool, error) {
	parts := strings.Fields(msg)
	if len(parts) < 4 || parts[2] != "edges:" {
		return Reply{}, false, nil
	}
	start, goal := parts[1], parts[3]

	graph := pathfind.NewGraph()
	for _, raw := range parts[4:] {
		edge, err := pathfind.ParseEdge(raw)
		if err != nil {
			logger.Log.Debug("Skipping unparseable edge", zap.String("edge", raw))
			continue
		}
		_ = graph.AddEdge(edge)
	}

	if len(parts) == 4 && s.Edges != nil && s.Students.Available() {
		stored, err := s.Edges.List(ctx)
		if err != nil {
			return Reply{}, true, fmt.Errorf("load stored edges: %w", err)
		}
		for _, e := range stored {
			if err := graph.AddEdge(pathfind.Edge{From: e.NodeFrom, To: e.NodeTo, Cost: e.Cost}); err != nil {
				logger.Log.Warn("Skipping stored edge", zap.Uint("id", e.ID), zap.Error(err))
			}
		}
	}

	reply := fmt.Sprintf("A* path from %s to %s: ", start, goal)
	if path, ok := graph.AStar(start, goal, pathfind.Zero); ok {
		reply += pathfind.FormatPath(path)
	} else {
		reply += "no path"
	}
	return Reply{Reply: reply, Source: util.ReplySourceAStar}, true, nil
}

func (s *AssistantService) userSummary(ctx context.Context, studentID string) (Reply, error) {
	history, err := s.Students.ListHistory(ctx, studentID, s.HistoryLimit, true)
	if err != nil {
		logger.Log.Warn("Failed to load history", zap.String("studentId", studentID), zap.Error(err))
		history = nil
	}
	marks, err := s.Students.ListMarks(ctx, studentID)
	if err != nil {
		logger.Log.Warn("Failed to load marks", zap.String("studentId", studentID), zap.Error(err))
		marks = nil
	}

	if len(history) == 0 && len(marks) == 0 {
		return Reply{Reply: "No data found for user " + studentID, Source: util.ReplySourceAStarUser}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "User %s data:\n", studentID)
	if len(history) > 0 {
		fmt.Fprintf(&sb, "Recent behavior (%d records):\n", len(history))
		for _, h := range history {
			fmt.Fprintf(&sb, "  Accuracy: %.1f%%, Response: %.1fs\n", h.Accuracy*100, h.AvgResponseTime)
		}
	}
	if len(marks) > 0 {
		shown := marks[:min(len(marks), userMarksShown)]
		values := make([]string, len(shown))
		for i, m := range shown {
			values[i] = strconv.FormatFloat(m, 'f', -1, 64)
		}
		fmt.Fprintf(&sb, "Marks (%d found): %s\n", len(marks), strings.Join(values, ", "))
	}
	return Reply{Reply: sb.String(), Source: util.ReplySourceAStarUser}, nil
}

// record 问答落库失败只记日志
func (s *AssistantService) record(ctx context.Context, conversation []model.ChatMessage, reply Reply) {
	if s.Conversations == nil || !s.Students.Available() {
		return
	}
	if err := s.Conversations.Append(ctx, reply.Source, conversation, reply.Reply); err != nil {
		logger.Log.Error("Failed to record conversation", zap.String("source", reply.Source), zap.Error(err))
	}
}

// AddEdge 返回 stored=false 表示演示模式下只做了确认
func (s *AssistantService) AddEdge(ctx context.Context, from, to string, cost float64) (bool, error) {
	edge := pathfind.Edge{From: from, To: to, Cost: cost}
	if err := edge.Validate(); err != nil {
		return false, err
	}
	if s.Edges == nil || !s.Students.Available() {
		return false, nil
	}
	if err := s.Edges.Create(ctx, &model.AStarEdge{NodeFrom: from, NodeTo: to, Cost: cost}); err != nil {
		return false, err
	}
	return true, nil
}
