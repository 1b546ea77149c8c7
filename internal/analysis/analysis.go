// Package analysis groups raw answer logs into per-student behavior metrics,
// clusters them with k-means and attaches a study recommendation.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sample 单条答题记录中参与聚合的字段
type Sample struct {
	StudentID    string
	ResponseTime float64
	Attempts     float64
	Correct      float64
}

type Behavior struct {
	StudentID       string
	AvgResponseTime float64
	AvgAttempts     float64
	Accuracy        float64
	Cluster         int
	Recommendation  string
}

// Features 聚类使用的三维特征，列顺序固定
func (b Behavior) Features() []float64 {
	return []float64{b.AvgResponseTime, b.AvgAttempts, b.Accuracy}
}

// Aggregate 按学生求均值，结果按 student id 升序
func Aggregate(samples []Sample) []Behavior {
	type acc struct {
		rt, attempts, correct float64
		n                     int
	}
	groups := make(map[string]*acc)
	for _, s := range samples {
		g, ok := groups[s.StudentID]
		if !ok {
			g = &acc{}
			groups[s.StudentID] = g
		}
		g.rt += s.ResponseTime
		g.attempts += s.Attempts
		g.correct += s.Correct
		g.n++
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Behavior, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		n := float64(g.n)
		out = append(out, Behavior{
			StudentID:       id,
			AvgResponseTime: g.rt / n,
			AvgAttempts:     g.attempts / n,
			Accuracy:        g.correct / n,
		})
	}
	return out
}

// Whiten 每列除以总体标准差，标准差为 0 的列保持不变，返回新切片
func Whiten(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return nil
	}
	dims := len(points[0])
	col := make([]float64, len(points))
	std := make([]float64, dims)
	for d := 0; d < dims; d++ {
		for i, p := range points {
			col[i] = p[d]
		}
		_, std[d] = stat.PopMeanStdDev(col, nil)
	}

	out := make([][]float64, len(points))
	for i, p := range points {
		row := append([]float64(nil), p...)
		for d := range row {
			if std[d] != 0 {
				row[d] /= std[d]
			}
		}
		out[i] = row
	}
	return out
}

const (
	RecommendFundamentals = "Review fundamentals with guided videos"
	RecommendTimedQuizzes = "Practice timed quizzes"
	RecommendHints        = "Use step-by-step hints"
	RecommendAdvanced     = "Advanced challenge questions recommended"
)

// Recommend 规则按顺序匹配，先中先得
func Recommend(b Behavior) string {
	switch {
	case b.Accuracy < 0.5:
		return RecommendFundamentals
	case b.AvgResponseTime > 20:
		return RecommendTimedQuizzes
	case b.AvgAttempts > 2:
		return RecommendHints
	default:
		return RecommendAdvanced
	}
}
