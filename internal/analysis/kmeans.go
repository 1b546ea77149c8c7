package analysis

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

const maxIterations = 100

// KMeans Lloyd 迭代，初始中心取 k 个互不相同的样本点。返回每个点的簇编号和最终中心。
// k 会被限制在 [1, len(points)]；空簇保留上一轮的中心。
func KMeans(points [][]float64, k int, rng *rand.Rand) ([]int, [][]float64) {
	n := len(points)
	if n == 0 {
		return nil, nil
	}
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}

	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		centroids[i] = append([]float64(nil), points[idx]...)
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearest(p, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		dims := len(points[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			floats.Add(sums[c], p)
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			floats.ScaleTo(centroids[c], 1/float64(counts[c]), sums[c])
		}
	}
	return labels, centroids
}

func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if dist := floats.Distance(p, centroid, 2); dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

// Cluster 对聚合结果做白化 + k-means，并填充 Cluster 与 Recommendation
func Cluster(behaviors []Behavior, k int, rng *rand.Rand) []Behavior {
	out := make([]Behavior, len(behaviors))
	copy(out, behaviors)
	if len(out) == 0 {
		return out
	}

	features := make([][]float64, len(out))
	for i, b := range out {
		features[i] = b.Features()
	}
	labels, _ := KMeans(Whiten(features), k, rng)
	for i := range out {
		out[i].Cluster = labels[i]
		out[i].Recommendation = Recommend(out[i])
	}
	return out
}
