package vector

import (
	"math"
	"sort"
)

type V []float64

func New(vec []float64) V {
	return vec
}

func (v V) Dimensions() int {
	return len(v)
}

func (v V) Point(idx int) float64 {
	return v[idx]
}

func (v V) Points() []float64 {
	return v
}

func (v V) Copy() V {
	var v1 = make(V, len(v))
	copy(v1, v)
	return v1
}

func (v V) Scale(value float64) {
	for i := range v {
		v[i] *= value
	}
}

// Norm rescales v in place so its entries sum to 1. A zero-sum vector is
// left untouched.
func (v V) Norm() {
	s := v.Sum()
	if s == 0 {
		return
	}
	for i := range v {
		v[i] /= s
	}
}

func (v V) Sum() float64 {
	var s float64
	for i := range v {
		s += v[i]
	}
	return s
}

func (v V) Max() float64 {
	if len(v) == 0 {
		return 0
	}
	max := v[0]
	for i := range v {
		if v[i] > max {
			max = v[i]
		}
	}
	return max
}

func (v V) Min() float64 {
	if len(v) == 0 {
		return 0
	}
	min := v[0]
	for i := range v {
		if v[i] < min {
			min = v[i]
		}
	}
	return min
}

func (v V) Mean() float64 {
	if len(v) == 0 {
		return 0
	}
	return v.Sum() / float64(len(v))
}

func (v V) Median() float64 {
	if len(v) == 0 {
		return 0
	}
	v1 := v.Copy()
	sort.Float64s(v1)
	if len(v1)%2 == 0 {
		vc := v1[len(v1)/2-1 : len(v1)/2+1]
		return vc.Sum() / 2
	}
	return v1[len(v1)/2]
}

// Entropy computes the Shannon entropy of v interpreted as a weight vector.
// Weights are normalized to sum to 1 first; zero weights contribute nothing.
// A zero-sum vector has entropy 0.
func (v V) Entropy() float64 {
	s := v.Sum()
	if s == 0 {
		return 0
	}
	var result float64
	for i := range v {
		if v[i] == 0 {
			continue
		}
		p := v[i] / s
		result += p * math.Log(p)
	}
	return -result
}
