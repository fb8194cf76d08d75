// Package math64 provides float64 vector kernels used by the distance and
// lloyd packages. This is an internal package - external users should use
// the distance package.
package math64

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float64) float64 {
	var ret float64
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// SquaredNorm calculates the squared L2 norm of a vector.
func SquaredNorm(v []float64) float64 {
	return Dot(v, v)
}

// SquaredL2 calculates the squared L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float64) float64 {
	var distance float64
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}

	return distance
}

// AddInPlace adds b element-wise into a.
func AddInPlace(a, b []float64) {
	for i := range a {
		a[i] += b[i]
	}
}

// ScaleInPlace multiplies all elements of a by scalar.
//
// This is primarily used by centroid normalization.
func ScaleInPlace(a []float64, scalar float64) {
	for i := range a {
		a[i] *= scalar
	}
}
