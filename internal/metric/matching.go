package metric

import "math"

// assignmentCost solves the square assignment problem over cost and returns
// the minimal total. Shortest-augmenting-path formulation with row/column
// potentials, O(n^3).
func assignmentCost(cost [][]float64) float64 {
	n := len(cost)
	if n == 0 {
		return 0
	}
	inf := math.Inf(1)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	// p[j] is the row currently assigned to column j, 0 = unassigned.
	p := make([]int, n+1)
	way := make([]int, n+1)

	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := 0; j <= n; j++ {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], inf, 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		// Unwind the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	var total float64
	for j := 1; j <= n; j++ {
		total += cost[p[j]-1][j-1]
	}
	return total
}

// bipartite holds an adjacency-based maximum matching (augmenting paths).
type bipartite struct {
	adj     [][]int
	matchL  []int
	matchR  []int
	visited []bool
}

func newBipartite(left, right int) *bipartite {
	return &bipartite{
		adj:     make([][]int, left),
		matchL:  make([]int, left),
		matchR:  make([]int, right),
		visited: make([]bool, right),
	}
}

func (g *bipartite) reset() {
	for i := range g.adj {
		g.adj[i] = g.adj[i][:0]
		g.matchL[i] = -1
	}
	for j := range g.matchR {
		g.matchR[j] = -1
	}
}

func (g *bipartite) tryAugment(l int) bool {
	for _, r := range g.adj[l] {
		if g.visited[r] {
			continue
		}
		g.visited[r] = true
		if g.matchR[r] == -1 || g.tryAugment(g.matchR[r]) {
			g.matchL[l] = r
			g.matchR[r] = l
			return true
		}
	}
	return false
}

// maxMatching returns the size of a maximum matching for the current
// adjacency lists.
func (g *bipartite) maxMatching() int {
	size := 0
	for l := range g.adj {
		for j := range g.visited {
			g.visited[j] = false
		}
		if g.tryAugment(l) {
			size++
		}
	}
	return size
}
