package diagram

import (
	"fmt"
	"math"
	"sort"
)

var (
	ErrInvalidDiagram    = fmt.Errorf("diagram: point birth is greater than death")
	ErrEmptyCollection   = fmt.Errorf("diagram: collection contains no samples")
	ErrDimensionMismatch = fmt.Errorf("diagram: dimension absent from the fitted state")
)

// Point is a single persistence pair labeled with its homology dimension.
// The invariant Birth <= Death holds for every valid point.
type Point struct {
	Birth float64 `json:"birth"`
	Death float64 `json:"death"`
	Dim   int     `json:"dim"`
}

func (p Point) Persistence() float64 {
	return p.Death - p.Birth
}

// IsDiagonal reports whether the point carries zero persistence. Such points
// are inert for every metric and feature map and are used as padding.
func (p Point) IsDiagonal() bool {
	return p.Birth == p.Death
}

// Diagram is a finite multiset of persistence pairs. A diagram may hold no
// points at all for a given dimension.
type Diagram []Point

// Restrict returns the points of d labeled with dim, order preserved.
func (d Diagram) Restrict(dim int) Diagram {
	var out Diagram
	for _, p := range d {
		if p.Dim == dim {
			out = append(out, p)
		}
	}
	return out
}

// Dims returns the sorted set of homology dimensions present in d.
func (d Diagram) Dims() []int {
	seen := map[int]struct{}{}
	for _, p := range d {
		seen[p.Dim] = struct{}{}
	}
	dims := make([]int, 0, len(seen))
	for q := range seen {
		dims = append(dims, q)
	}
	sort.Ints(dims)
	return dims
}

// MinBirth returns the smallest birth value among the points of d, or 0 for
// an empty diagram.
func (d Diagram) MinBirth() float64 {
	if len(d) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, p := range d {
		if p.Birth < min {
			min = p.Birth
		}
	}
	return min
}

// TotalPersistence sums death-birth over all points of d.
func (d Diagram) TotalPersistence() float64 {
	var total float64
	for _, p := range d {
		total += p.Persistence()
	}
	return total
}

func (d Diagram) Validate() error {
	for i, p := range d {
		if p.Birth > p.Death {
			return fmt.Errorf("point %d (birth=%v, death=%v, dim=%d): %w", i, p.Birth, p.Death, p.Dim, ErrInvalidDiagram)
		}
	}
	return nil
}

// Collection is an ordered sequence of diagrams, one per sample. Samples may
// reference different subsets of dimensions.
type Collection []Diagram

// Dims returns the sorted union of dimensions across all samples.
func (c Collection) Dims() []int {
	seen := map[int]struct{}{}
	for _, d := range c {
		for _, p := range d {
			seen[p.Dim] = struct{}{}
		}
	}
	dims := make([]int, 0, len(seen))
	for q := range seen {
		dims = append(dims, q)
	}
	sort.Ints(dims)
	return dims
}

// Validate fails fast on an empty collection or any point violating the
// birth <= death invariant.
func (c Collection) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCollection
	}
	for i, d := range c {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return nil
}
