package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/kmeans/internal/math64"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float64) float64 {
	return math64.Dot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float64) float64 {
	return math64.SquaredL2(a, b)
}

// Norm calculates the L2 norm of a vector.
func Norm(v []float64) float64 {
	return math.Sqrt(math64.SquaredNorm(v))
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	MetricL2 Metric = iota
	MetricCosine
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricCosine:
		return "Cosine"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float64) float64

// Distance is the pluggable metric capability handed to the lloyd kernel.
// Smaller values mean closer; every metric here is a minimization target.
type Distance interface {
	Evaluate(a, b []float64) float64
}

// NormDecomposer is an optional capability for metrics whose distance
// decomposes as SquaredNorm(a) + SquaredNorm(b) - 2*Dot(a, b).
// The lloyd kernel type-asserts for it to cache per-centroid squared norms;
// metrics without it fall back to direct pairwise Evaluate.
type NormDecomposer interface {
	SquaredNorm(v []float64) float64
	Dot(a, b []float64) float64
}

// SquaredEuclidean is the squared L2 distance. It supports norm decomposition.
type SquaredEuclidean struct{}

func (SquaredEuclidean) Evaluate(a, b []float64) float64 {
	return math64.SquaredL2(a, b)
}

func (SquaredEuclidean) SquaredNorm(v []float64) float64 {
	return math64.SquaredNorm(v)
}

func (SquaredEuclidean) Dot(a, b []float64) float64 {
	return math64.Dot(a, b)
}

// CosineDistance is 1 minus the cosine similarity.
// Zero-norm inputs evaluate to 1 (maximally distant) rather than NaN.
type CosineDistance struct{}

func (CosineDistance) Evaluate(a, b []float64) float64 {
	na := math.Sqrt(math64.SquaredNorm(a))
	nb := math.Sqrt(math64.SquaredNorm(b))
	if na == 0 || nb == 0 {
		return 1
	}

	return 1 - math64.Dot(a, b)/(na*nb)
}

// NegativeDot is the negated inner product, for maximum-inner-product
// clustering. It does not support norm decomposition.
type NegativeDot struct{}

func (NegativeDot) Evaluate(a, b []float64) float64 {
	return -math64.Dot(a, b)
}

// Compile time checks for the capability sets.
var (
	_ Distance       = SquaredEuclidean{}
	_ NormDecomposer = SquaredEuclidean{}
	_ Distance       = CosineDistance{}
	_ Distance       = NegativeDot{}
)

// For returns the Distance implementation for the given metric.
func For(m Metric) (Distance, error) {
	switch m {
	case MetricL2:
		return SquaredEuclidean{}, nil
	case MetricCosine:
		return CosineDistance{}, nil
	case MetricDot:
		return NegativeDot{}, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	d, err := For(m)
	if err != nil {
		return nil, err
	}

	return d.Evaluate, nil
}
