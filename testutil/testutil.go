package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// FlatUniform generates num point-contiguous vectors with values in [0, 1).
// Point i occupies the slice [i*dim, (i+1)*dim).
func (r *RNG) FlatUniform(num, dim int) []float64 {
	data := make([]float64, num*dim)
	r.FillUniform(data)
	return data
}

// GaussianBlobs generates perCenter points around each of the given centers
// (point-contiguous, len(centers)/dim of them) with Gaussian noise of the
// given standard deviation. Points are laid out center-by-center, so point
// i belongs to center i/perCenter.
func (r *RNG) GaussianBlobs(centers []float64, dim, perCenter int, stddev float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	numCenters := len(centers) / dim
	data := make([]float64, numCenters*perCenter*dim)

	for c := 0; c < numCenters; c++ {
		center := centers[c*dim : (c+1)*dim]
		for p := 0; p < perCenter; p++ {
			vec := data[(c*perCenter+p)*dim:]
			for j := 0; j < dim; j++ {
				vec[j] = center[j] + r.rand.NormFloat64()*stddev
			}
		}
	}

	return data
}
