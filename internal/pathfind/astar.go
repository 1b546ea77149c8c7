// Package pathfind finds cheapest paths over small undirected learning graphs.
package pathfind

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

var ErrInvalidEdge = errors.New("invalid edge")

type Edge struct {
	From string
	To   string
	Cost float64
}

// Validate 代价必须是有限的非负数
func (e Edge) Validate() error {
	if e.From == "" || e.To == "" {
		return fmt.Errorf("%w: from and to are required", ErrInvalidEdge)
	}
	if math.IsNaN(e.Cost) || math.IsInf(e.Cost, 0) || e.Cost < 0 {
		return fmt.Errorf("%w: cost must be a finite non-negative number, got %v", ErrInvalidEdge, e.Cost)
	}
	return nil
}

// Graph 节点名映射到 gonum 的整数 ID；同一对节点只保留最便宜的边
type Graph struct {
	g     *simple.WeightedUndirectedGraph
	ids   map[string]int64
	names map[int64]string
}

// NewGraph 非法的边直接忽略
func NewGraph(edges ...Edge) *Graph {
	g := &Graph{
		g:     simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
	}
	for _, e := range edges {
		_ = g.AddEdge(e)
	}
	return g
}

func (g *Graph) node(name string) graph.Node {
	if id, ok := g.ids[name]; ok {
		return g.g.Node(id)
	}
	n := g.g.NewNode()
	g.g.AddNode(n)
	g.ids[name] = n.ID()
	g.names[n.ID()] = name
	return n
}

func (g *Graph) AddEdge(e Edge) error {
	if err := e.Validate(); err != nil {
		return err
	}
	from, to := g.node(e.From), g.node(e.To)
	// 自环对最短路没有意义
	if from.ID() == to.ID() {
		return nil
	}
	if old := g.g.WeightedEdge(from.ID(), to.ID()); old != nil && old.Weight() <= e.Cost {
		return nil
	}
	g.g.SetWeightedEdge(g.g.NewWeightedEdge(from, to, e.Cost))
	return nil
}

func (g *Graph) Len() int {
	return len(g.ids)
}

// Heuristic 估计值必须不高估剩余代价
type Heuristic func(node string) float64

func Zero(string) float64 { return 0 }

// AStar 返回从 start 到 goal 的路径（含两端），不可达时返回 nil, false
func (g *Graph) AStar(start, goal string, h Heuristic) ([]string, bool) {
	if start == goal {
		return []string{start}, true
	}
	s, ok := g.ids[start]
	if !ok {
		return nil, false
	}
	t, ok := g.ids[goal]
	if !ok {
		return nil, false
	}

	var heuristic path.Heuristic
	if h != nil {
		heuristic = func(x, _ graph.Node) float64 { return h(g.names[x.ID()]) }
	}
	shortest, _ := path.AStar(g.g.Node(s), g.g.Node(t), g.g, heuristic)
	nodes, _ := shortest.To(t)
	if len(nodes) == 0 {
		return nil, false
	}

	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = g.names[n.ID()]
	}
	return out, true
}

// ParseEdge 解析 "a-b:cost" 形式的边
func ParseEdge(s string) (Edge, error) {
	nodes, rawCost, ok := strings.Cut(s, ":")
	if !ok {
		return Edge{}, fmt.Errorf("%w: %q", ErrInvalidEdge, s)
	}
	from, to, ok := strings.Cut(nodes, "-")
	if !ok || from == "" || to == "" || strings.Contains(to, "-") {
		return Edge{}, fmt.Errorf("%w: %q", ErrInvalidEdge, s)
	}
	cost, err := strconv.ParseFloat(rawCost, 64)
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %q: %v", ErrInvalidEdge, s, err)
	}
	e := Edge{From: from, To: to, Cost: cost}
	if err := e.Validate(); err != nil {
		return Edge{}, fmt.Errorf("%q: %w", s, err)
	}
	return e, nil
}

// FormatPath 输出 "A -> B -> C"
func FormatPath(nodes []string) string {
	return strings.Join(nodes, " -> ")
}
