package geom

import (
	"fmt"
	"math"
)

var (
	ErrDimNotEqual = fmt.Errorf("vectors dimension is not equal")
	ErrBadExponent = fmt.Errorf("norm exponent must be >= 1")
)

type DistanceFn func(vec, vec1 []float64) (float64, error)

func EuclideanDistance(vec, vec1 []float64) (float64, error) {
	var d float64
	if len(vec) != len(vec1) {
		return 0.0, ErrDimNotEqual
	}
	for i := 0; i < len(vec); i++ {
		diff := vec[i] - vec1[i]
		d += diff * diff
	}
	return math.Sqrt(d), nil
}

func ChebyshevDistance(vec, vec1 []float64) (float64, error) {
	var absDistance, distance float64
	if len(vec) != len(vec1) {
		return 0.0, ErrDimNotEqual
	}
	for i := 0; i < len(vec1); i++ {
		absDistance = math.Abs(vec[i] - vec1[i])
		if distance < absDistance {
			distance = absDistance
		}
	}
	return distance, nil
}

func ManhattanDistance(vec, vec1 []float64) (float64, error) {
	var distance float64
	if len(vec) != len(vec1) {
		return 0.0, ErrDimNotEqual
	}
	for i := 0; i < len(vec); i++ {
		distance += math.Abs(vec[i] - vec1[i])
	}
	return distance, nil
}

// MinkowskiDistance returns the L_p distance function for p >= 1. p = 1 and
// p = 2 reuse the Manhattan and Euclidean implementations, +Inf gives
// Chebyshev.
func MinkowskiDistance(p float64) (DistanceFn, error) {
	switch {
	case p < 1 || math.IsNaN(p):
		return nil, ErrBadExponent
	case p == 1:
		return ManhattanDistance, nil
	case p == 2:
		return EuclideanDistance, nil
	case math.IsInf(p, 1):
		return ChebyshevDistance, nil
	}
	return func(vec, vec1 []float64) (float64, error) {
		if len(vec) != len(vec1) {
			return 0.0, ErrDimNotEqual
		}
		var d float64
		for i := 0; i < len(vec); i++ {
			d += math.Pow(math.Abs(vec[i]-vec1[i]), p)
		}
		return math.Pow(d, 1/p), nil
	}, nil
}

// PNorm computes the L_p norm of vec for p >= 1, +Inf gives the max norm.
func PNorm(vec []float64, p float64) (float64, error) {
	if p < 1 || math.IsNaN(p) {
		return 0.0, ErrBadExponent
	}
	if math.IsInf(p, 1) {
		var max float64
		for i := range vec {
			if a := math.Abs(vec[i]); a > max {
				max = a
			}
		}
		return max, nil
	}
	var d float64
	for i := range vec {
		d += math.Pow(math.Abs(vec[i]), p)
	}
	return math.Pow(d, 1/p), nil
}
