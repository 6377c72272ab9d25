package metric

import (
	"math"

	"github.com/go-tda/tda/internal/diagram"
)

// Wasserstein computes the p-Wasserstein distance between two diagrams
// restricted to one dimension: the p-th root of the minimal total matched
// cost^p over perfect matchings on the diagonal-augmented point sets. Matching
// a point to the diagonal costs half its persistence; diagonal-to-diagonal
// matches are free.
func Wasserstein(a, b diagram.Diagram, p float64) (float64, error) {
	a, b = offDiagonal(a), offDiagonal(b)
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return 0, nil
	}
	if n == 0 || m == 0 {
		// Everything matches the diagonal.
		var total float64
		for _, pt := range a {
			total += math.Pow(diagCost(pt), p)
		}
		for _, pt := range b {
			total += math.Pow(diagCost(pt), p)
		}
		return math.Pow(total, 1/p), nil
	}

	// Square (n+m)x(n+m) cost matrix: rows are points of a followed by m
	// diagonal slots, columns are points of b followed by n diagonal slots.
	size := n + m
	cost := make([][]float64, size)
	for i := range cost {
		cost[i] = make([]float64, size)
	}
	for i := 0; i < n; i++ {
		dc := math.Pow(diagCost(a[i]), p)
		for j := 0; j < m; j++ {
			cost[i][j] = math.Pow(chebyshev(a[i], b[j]), p)
		}
		for j := m; j < size; j++ {
			cost[i][j] = dc
		}
	}
	for j := 0; j < m; j++ {
		dc := math.Pow(diagCost(b[j]), p)
		for i := n; i < size; i++ {
			cost[i][j] = dc
		}
	}

	total := assignmentCost(cost)
	return math.Pow(total, 1/p), nil
}
