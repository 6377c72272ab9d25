package metric

import (
	"sort"

	"github.com/go-tda/tda/internal/diagram"
)

// Bottleneck computes the bottleneck distance between two diagrams restricted
// to one dimension: the smallest threshold t admitting a perfect matching in
// which matched pairs are within Chebyshev distance t and any point may match
// the diagonal at half its persistence.
//
// The search runs over the sorted candidate costs (all pairwise Chebyshev
// distances plus all diagonal costs); feasibility of a threshold is decided
// by maximum bipartite matching on the diagonal-augmented graph.
func Bottleneck(a, b diagram.Diagram) (float64, error) {
	a, b = offDiagonal(a), offDiagonal(b)
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return 0, nil
	}
	if n == 0 {
		return maxDiagCost(b), nil
	}
	if m == 0 {
		return maxDiagCost(a), nil
	}

	candidates := make([]float64, 0, n*m+n+m+1)
	candidates = append(candidates, 0)
	for i := range a {
		candidates = append(candidates, diagCost(a[i]))
		for j := range b {
			candidates = append(candidates, chebyshev(a[i], b[j]))
		}
	}
	for j := range b {
		candidates = append(candidates, diagCost(b[j]))
	}
	sort.Float64s(candidates)
	candidates = dedupe(candidates)

	// Left side: points of a, then one virtual diagonal node per point of b.
	// Right side: points of b, then one virtual diagonal node per point of a.
	g := newBipartite(n+m, m+n)
	feasible := func(t float64) bool {
		g.reset()
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				if chebyshev(a[i], b[j]) <= t {
					g.adj[i] = append(g.adj[i], j)
				}
			}
			if diagCost(a[i]) <= t {
				g.adj[i] = append(g.adj[i], m+i)
			}
		}
		for j := 0; j < m; j++ {
			l := n + j
			if diagCost(b[j]) <= t {
				g.adj[l] = append(g.adj[l], j)
			}
			// Virtual-virtual matches carry zero cost and are always allowed.
			for i := 0; i < n; i++ {
				g.adj[l] = append(g.adj[l], m+i)
			}
		}
		return g.maxMatching() == n+m
	}

	lo, hi := 0, len(candidates)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if feasible(candidates[mid]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return candidates[lo], nil
}

func maxDiagCost(d diagram.Diagram) float64 {
	var max float64
	for _, p := range d {
		if c := diagCost(p); c > max {
			max = c
		}
	}
	return max
}

func dedupe(sorted []float64) []float64 {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
